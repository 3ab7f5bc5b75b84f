package common

// Discord color constants
const (
	ColorSuccess = 0x57F287 // Green
	ColorPurple  = 0x9B59B6
	ColorOrange  = 0xE67E22
)

// Component custom ids
const (
	CustomIDVerify     = "xenory_verify"
	CustomIDStartForm  = "xenory_start_form"
	CustomIDTitleModal = "xenory_title_modal"
	CustomIDTitleInput = "title_input"
)

// ApplicationChannelPrefix starts the name of every application channel
const ApplicationChannelPrefix = "application-"
