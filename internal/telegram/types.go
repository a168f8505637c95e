package telegram

// Update is an incoming event delivered to the webhook by the Bot API.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

// Message is a Telegram message. Only the fields the pipeline consumes
// are mapped.
type Message struct {
	MessageID int64       `json:"message_id"`
	From      *User       `json:"from"`
	Chat      Chat        `json:"chat"`
	Text      string      `json:"text"`
	Caption   string      `json:"caption"`
	Photo     []PhotoSize `json:"photo"`
	Video     *Video      `json:"video"`
}

// User is the sender of a message.
type User struct {
	ID        int64  `json:"id"`
	IsBot     bool   `json:"is_bot"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

// Chat is the conversation a message belongs to.
type Chat struct {
	ID   int64  `json:"id"`
	Type string `json:"type"`
}

// PhotoSize is one resolution of a photo. Telegram sends them smallest
// first; the last entry is the original size.
type PhotoSize struct {
	FileID   string `json:"file_id"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	FileSize int64  `json:"file_size"`
}

// Video is a video attachment.
type Video struct {
	FileID   string `json:"file_id"`
	Duration int    `json:"duration"`
	MIMEType string `json:"mime_type"`
	FileSize int64  `json:"file_size"`
}

// PromptText returns the user-authored text of the message: the plain text
// for text messages, the caption for media messages.
func (m *Message) PromptText() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Caption
}

// fileInfo is the response envelope of the getFile method.
type fileInfo struct {
	OK     bool `json:"ok"`
	Result struct {
		FileID   string `json:"file_id"`
		FilePath string `json:"file_path"`
		FileSize int64  `json:"file_size"`
	} `json:"result"`
}

// apiResponse is the generic Bot API response envelope.
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}
