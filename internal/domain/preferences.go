package domain

// Preferences are the notification and search settings stored by the backend.
type Preferences struct {
	EmailNotifications bool            `json:"email_notifications"`
	NewJobAlerts       bool            `json:"new_job_alerts"`
	ApplicationUpdates bool            `json:"application_updates"`
	MarketingEmails    bool            `json:"marketing_emails"`
	SavedSearches      []SearchFilters `json:"saved_searches,omitempty"`
	PreferredJobTypes  []string        `json:"preferred_job_types,omitempty"`
}

// PreferencesUpdate is a partial update; nil fields are left untouched by the backend.
type PreferencesUpdate struct {
	EmailNotifications *bool           `json:"email_notifications,omitempty"`
	NewJobAlerts       *bool           `json:"new_job_alerts,omitempty"`
	ApplicationUpdates *bool           `json:"application_updates,omitempty"`
	MarketingEmails    *bool           `json:"marketing_emails,omitempty"`
	SavedSearches      []SearchFilters `json:"saved_searches,omitempty"`
	PreferredJobTypes  []string        `json:"preferred_job_types,omitempty"`
}

// IsEmpty reports whether the update carries no field at all.
func (u PreferencesUpdate) IsEmpty() bool {
	return u.EmailNotifications == nil &&
		u.NewJobAlerts == nil &&
		u.ApplicationUpdates == nil &&
		u.MarketingEmails == nil &&
		u.SavedSearches == nil &&
		u.PreferredJobTypes == nil
}
