package checkout

import (
	"fmt"
	"strings"

	"github.com/TechNas12/samruddhi-organic/session"
)

// Draft is the in-progress delivery/contact form data for an order. All
// fields except Notes are required before submission; this is a UX guard
// only, the backend validates authoritatively.
type Draft struct {
	CustomerName string
	Phone        string
	Address      string
	City         string
	State        string
	Pincode      string
	Notes        string
}

// DraftFromProfile seeds a draft from the stored profile. Absent profile
// fields are already empty strings, so the draft stays editable and the
// required-field check still applies.
func DraftFromProfile(p session.Principal) Draft {
	return Draft{
		CustomerName: p.Name,
		Phone:        p.Phone,
		Address:      p.Address,
		City:         p.City,
		State:        p.State,
		Pincode:      p.Pincode,
	}
}

// MissingFieldsError blocks submission locally; nothing is sent to the
// backend while required fields are empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Fields, ", "))
}

func (d Draft) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"customer_name", d.CustomerName},
		{"phone", d.Phone},
		{"address", d.Address},
		{"city", d.City},
		{"state", d.State},
		{"pincode", d.Pincode},
	}
	var missing []string
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &MissingFieldsError{Fields: missing}
	}
	return nil
}
