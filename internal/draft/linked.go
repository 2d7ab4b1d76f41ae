package draft

import (
	"formstudio/internal/model"
	"formstudio/internal/registry"
)

// NewPreferencePair builds the committee/portfolio question pair. The
// portfolio question's id derives from the committee id so the link survives
// serialization, and both questions are system managed: their labels and
// required flags are fixed by the builder.
func NewPreferencePair() (owner, dependent model.Question) {
	committeeID := registry.NewID()
	owner = model.Question{
		ID:              committeeID,
		Type:            model.QuestionPreference,
		Label:           "Committee Preference",
		Required:        true,
		IsSystemManaged: true,
		PreferenceConfig: &model.PreferenceConfig{
			Kind:           model.PreferenceCommittee,
			MinPreferences: 1,
			MaxPreferences: 3,
		},
	}
	dependent = model.Question{
		ID:                committeeID + "-portfolio",
		Type:              model.QuestionPreference,
		Label:             "Portfolio Preference",
		Required:          true,
		IsSystemManaged:   true,
		LinkedCommitteeID: committeeID,
		PreferenceConfig: &model.PreferenceConfig{
			Kind:           model.PreferencePortfolio,
			MinPreferences: 1,
			MaxPreferences: 3,
		},
	}
	return owner, dependent
}

// NewEBPreferencePair builds the executive-board committee/role pair. Role
// labels are customizable after creation, so the pair is not system managed.
func NewEBPreferencePair() (owner, dependent model.Question) {
	committeeID := registry.NewID()
	owner = model.Question{
		ID:       committeeID,
		Type:     model.QuestionEBPreference,
		Label:    "Executive Board Committee Preference",
		Required: true,
		PreferenceConfig: &model.PreferenceConfig{
			Kind: model.PreferenceCommittee,
		},
	}
	dependent = model.Question{
		ID:                registry.NewID(),
		Type:              model.QuestionEBPreference,
		Label:             "Executive Board Role Preference",
		Required:          true,
		LinkedCommitteeID: committeeID,
		PreferenceConfig: &model.PreferenceConfig{
			Kind: model.PreferenceRole,
			RoleLabels: map[string]string{
				"chair":     "Chair",
				"viceChair": "Vice Chair",
				"member":    "Committee Member",
			},
		},
	}
	return owner, dependent
}
