package models

// Setting keys read by the client. Only these keys are fetched from the
// generic per-user settings table.
const (
	SettingChatbotEnabled  = "chatbot_enabled"
	SettingChatbotMode     = "chatbot_mode"
	SettingAutoFillAddress = "auto_fill_address_from_admin_barangay"
)

// DefaultChatbotMode is used when no chatbot_mode row exists.
const DefaultChatbotMode = "offline"

// SettingKeys lists the keys projected into [UserSettings].
var SettingKeys = []string{
	SettingChatbotEnabled,
	SettingChatbotMode,
	SettingAutoFillAddress,
}

// SettingRow is one key/value row of the settings table.
type SettingRow struct {
	UserID string `json:"user_id"`
	Key    string `json:"key"`
	Value  string `json:"value"`
}

// UserSettings is the projection of a user's settings rows.
type UserSettings struct {
	ChatbotEnabled                   bool   `json:"chatbot_enabled"`
	ChatbotMode                      string `json:"chatbot_mode"`
	AutoFillAddressFromAdminBarangay bool   `json:"auto_fill_address_from_admin_barangay"`
}

// DefaultUserSettings returns the settings used when no rows exist or the
// settings could not be fetched.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		ChatbotEnabled:                   true,
		ChatbotMode:                      DefaultChatbotMode,
		AutoFillAddressFromAdminBarangay: true,
	}
}

// ProjectSettings folds settings rows into [UserSettings].
//
// Boolean preferences default to true and are only false when a row exists
// whose value is exactly "false". chatbot_mode takes the row value when a row
// exists. Rows with unknown keys are ignored; when a key repeats the last row
// wins.
func ProjectSettings(rows []SettingRow) UserSettings {
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.Key] = row.Value
	}

	settings := DefaultUserSettings()
	if v, ok := values[SettingChatbotEnabled]; ok {
		settings.ChatbotEnabled = v != "false"
	}
	if v, ok := values[SettingChatbotMode]; ok {
		settings.ChatbotMode = v
	}
	if v, ok := values[SettingAutoFillAddress]; ok {
		settings.AutoFillAddressFromAdminBarangay = v != "false"
	}

	return settings
}
