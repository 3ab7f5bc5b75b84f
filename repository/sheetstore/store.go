package sheetstore

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"xenory/models"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// SheetName is the tab holding one row per guild below a header row
const SheetName = "GuildConfigs"

const (
	headerRange = SheetName + "!A1:K1"
	dataRange   = SheetName + "!A2:K"
	appendRange = SheetName + "!A:K"
)

// header lists the columns A..K in order
var header = []string{
	"guild_id",
	"restricted_role_id",
	"verified_role_id",
	"welcome_channel_id",
	"welcome_message_template",
	"welcome_dm_template",
	"send_welcome_dm",
	"application_category_id",
	"application_staff_channel_id",
	"staff_ping_role_id",
	"application_title",
}

// valuesAPI is the subset of the Sheets values API the store needs
type valuesAPI interface {
	Get(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error)
	Update(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error
	Append(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error
}

// Store stores guild configurations in a Google spreadsheet
type Store struct {
	api           valuesAPI
	spreadsheetID string

	// serializes the read-locate-write sequence of Upsert within this process
	mu sync.Mutex
}

// New creates a store backed by the Sheets API. When credentialsFile is empty
// application default credentials are used.
func New(ctx context.Context, spreadsheetID, credentialsFile string) (*Store, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	store := newStore(&serviceValues{svc: svc}, spreadsheetID)
	if err := store.ensureHeader(ctx); err != nil {
		return nil, err
	}
	return store, nil
}

func newStore(api valuesAPI, spreadsheetID string) *Store {
	return &Store{api: api, spreadsheetID: spreadsheetID}
}

// ensureHeader writes the header row when the sheet is empty
func (s *Store) ensureHeader(ctx context.Context) error {
	rows, err := s.api.Get(ctx, s.spreadsheetID, headerRange)
	if err != nil {
		return fmt.Errorf("failed to read sheet header: %w", err)
	}
	if len(rows) > 0 && len(rows[0]) > 0 {
		return nil
	}

	row := make([]interface{}, len(header))
	for i, h := range header {
		row[i] = h
	}
	if err := s.api.Update(ctx, s.spreadsheetID, headerRange, [][]interface{}{row}); err != nil {
		return fmt.Errorf("failed to write sheet header: %w", err)
	}

	log.WithField("spreadsheet_id", s.spreadsheetID).Info("Initialized guild config sheet header")
	return nil
}

// Find returns the configuration for a guild, or nil when none is stored
func (s *Store) Find(ctx context.Context, guildID string) (*models.GuildConfig, error) {
	rows, err := s.api.Get(ctx, s.spreadsheetID, dataRange)
	if err != nil {
		return nil, fmt.Errorf("failed to get guild config for guild %s: %w", guildID, err)
	}

	idx := findRow(rows, guildID)
	if idx < 0 {
		return nil, nil
	}
	return decodeRow(rows[idx]), nil
}

// Upsert updates the guild's row in place or appends a new one
func (s *Store) Upsert(ctx context.Context, cfg *models.GuildConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.api.Get(ctx, s.spreadsheetID, dataRange)
	if err != nil {
		return fmt.Errorf("failed to read guild configs: %w", err)
	}

	values := [][]interface{}{encodeRow(cfg)}

	if idx := findRow(rows, cfg.GuildID); idx >= 0 {
		// Data starts at row 2
		rowNumber := idx + 2
		writeRange := fmt.Sprintf("%s!A%d:K%d", SheetName, rowNumber, rowNumber)
		if err := s.api.Update(ctx, s.spreadsheetID, writeRange, values); err != nil {
			return fmt.Errorf("failed to update guild config for guild %s: %w", cfg.GuildID, err)
		}
		return nil
	}

	if err := s.api.Append(ctx, s.spreadsheetID, appendRange, values); err != nil {
		return fmt.Errorf("failed to append guild config for guild %s: %w", cfg.GuildID, err)
	}
	return nil
}

func findRow(rows [][]interface{}, guildID string) int {
	for i, row := range rows {
		if cell(row, 0) == guildID {
			return i
		}
	}
	return -1
}

func cell(row []interface{}, i int) string {
	if i >= len(row) || row[i] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[i]))
}

func optional(row []interface{}, i int) *string {
	v := cell(row, i)
	if v == "" {
		return nil
	}
	return &v
}

func decodeRow(row []interface{}) *models.GuildConfig {
	cfg := &models.GuildConfig{
		GuildID:                   cell(row, 0),
		RestrictedRoleID:          optional(row, 1),
		VerifiedRoleID:            optional(row, 2),
		WelcomeChannelID:          optional(row, 3),
		WelcomeMessageTemplate:    optional(row, 4),
		WelcomeDMTemplate:         optional(row, 5),
		SendWelcomeDM:             strings.EqualFold(cell(row, 6), "TRUE"),
		ApplicationCategoryID:     optional(row, 7),
		ApplicationStaffChannelID: optional(row, 8),
		StaffPingRoleID:           optional(row, 9),
		ApplicationTitle:          cell(row, 10),
	}
	if cfg.ApplicationTitle == "" {
		cfg.ApplicationTitle = models.DefaultApplicationTitle
	}
	return cfg
}

func encodeRow(cfg *models.GuildConfig) []interface{} {
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	sendDM := "FALSE"
	if cfg.SendWelcomeDM {
		sendDM = "TRUE"
	}
	return []interface{}{
		cfg.GuildID,
		deref(cfg.RestrictedRoleID),
		deref(cfg.VerifiedRoleID),
		deref(cfg.WelcomeChannelID),
		deref(cfg.WelcomeMessageTemplate),
		deref(cfg.WelcomeDMTemplate),
		sendDM,
		deref(cfg.ApplicationCategoryID),
		deref(cfg.ApplicationStaffChannelID),
		deref(cfg.StaffPingRoleID),
		cfg.Title(),
	}
}

// serviceValues adapts *sheets.Service to valuesAPI
type serviceValues struct {
	svc *sheets.Service
}

func (v *serviceValues) Get(ctx context.Context, spreadsheetID, readRange string) ([][]interface{}, error) {
	resp, err := v.svc.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	return resp.Values, nil
}

func (v *serviceValues) Update(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	_, err := v.svc.Spreadsheets.Values.Update(spreadsheetID, writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

func (v *serviceValues) Append(ctx context.Context, spreadsheetID, writeRange string, values [][]interface{}) error {
	_, err := v.svc.Spreadsheets.Values.Append(spreadsheetID, writeRange, &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}
