package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDecisionID is returned when a component id does not encode a staff decision
var ErrInvalidDecisionID = errors.New("invalid decision id")

// DecisionKind is the staff verdict on an application
type DecisionKind string

const (
	DecisionApprove DecisionKind = "approve"
	DecisionReject  DecisionKind = "reject"
)

// Decision is a staff verdict for one applicant. It is carried entirely in the
// custom id of the approve/reject buttons: "<kind>_<applicantUserID>".
type Decision struct {
	Kind        DecisionKind
	ApplicantID string
}

// NewApproval creates an approve decision for the applicant
func NewApproval(applicantID string) Decision {
	return Decision{Kind: DecisionApprove, ApplicantID: applicantID}
}

// NewRejection creates a reject decision for the applicant
func NewRejection(applicantID string) Decision {
	return Decision{Kind: DecisionReject, ApplicantID: applicantID}
}

// IsApproval reports whether the decision approves the applicant
func (d Decision) IsApproval() bool {
	return d.Kind == DecisionApprove
}

// CustomID encodes the decision as a component custom id
func (d Decision) CustomID() string {
	return string(d.Kind) + "_" + d.ApplicantID
}

// IsDecisionID reports whether customID looks like a decision id
func IsDecisionID(customID string) bool {
	return strings.HasPrefix(customID, string(DecisionApprove)+"_") ||
		strings.HasPrefix(customID, string(DecisionReject)+"_")
}

// ParseDecisionID parses and validates a decision custom id
func ParseDecisionID(customID string) (Decision, error) {
	kind, applicantID, ok := strings.Cut(customID, "_")
	if !ok {
		return Decision{}, fmt.Errorf("%w: %q", ErrInvalidDecisionID, customID)
	}

	switch DecisionKind(kind) {
	case DecisionApprove, DecisionReject:
	default:
		return Decision{}, fmt.Errorf("%w: unknown kind %q", ErrInvalidDecisionID, kind)
	}

	if !isSnowflake(applicantID) {
		return Decision{}, fmt.Errorf("%w: bad applicant id %q", ErrInvalidDecisionID, applicantID)
	}

	return Decision{Kind: DecisionKind(kind), ApplicantID: applicantID}, nil
}

// isSnowflake reports whether s is a non-empty run of ASCII digits
func isSnowflake(s string) bool {
	if s == "" || len(s) > 20 {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
