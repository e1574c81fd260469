package editor

import "encoding/json"

type CreateEditRequest struct {
	Message string `json:"message" binding:"required"`
	FileURL string `json:"file_url"`
}

type EditResponse struct {
	Message        string                 `json:"message"`
	EditType       string                 `json:"edit_type"`
	Changed        bool                   `json:"changed"`
	Changes        map[string]interface{} `json:"changes,omitempty"`
	ContentVersion int64                  `json:"content_version"`
}

type EditLogEntry struct {
	ID             string          `json:"id"`
	Role           string          `json:"role"`
	Message        string          `json:"message"`
	EditType       string          `json:"edit_type,omitempty"`
	AppliedChanges json.RawMessage `json:"applied_changes,omitempty"`
	CreatedAt      string          `json:"created_at"`
}
