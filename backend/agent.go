package backend

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"strings"
)

// FormatPrompt builds the sectioned prompt the agent expects
func FormatPrompt(text, transcript string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[TEXT]: %s\n", strings.TrimSpace(text))
	if t := strings.TrimSpace(transcript); t != "" {
		fmt.Fprintf(&b, "[AUDIO]: %s\n", t)
	}
	return b.String()
}

type startRequest struct {
	UserPrompt string `json:"userPrompt"`
	AudioID    string `json:"audioId,omitempty"`
	Token      string `json:"token"`
	DeviceID   string `json:"deviceId,omitempty"`
}

type startResponse struct {
	ConversationID ID `json:"conversationId"`
}

// StartConversation asks the agent to open a new conversation for a prompt
// and returns its id. The agent's reply arrives over the conversation socket.
func (c *Client) StartConversation(ctx context.Context, prompt, audioID, deviceID string) (ID, error) {
	req, token, err := c.authed(ctx)
	if err != nil {
		return "", err
	}

	var result startResponse
	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(startRequest{UserPrompt: prompt, AudioID: audioID, Token: token, DeviceID: deviceID}).
		SetResult(&result).
		SetError(&errorBody{}).
		Post("/agent/")
	if err := check("start conversation", resp, err); err != nil {
		return "", err
	}

	if result.ConversationID == "" {
		return "", fmt.Errorf("start conversation: response has no conversationId")
	}
	return result.ConversationID, nil
}

// MessageRequest continues an existing conversation
type MessageRequest struct {
	ConversationID ID
	Prompt         string
	ImagePaths     []string
}

type messageBody struct {
	UserPrompt     string   `json:"userPrompt"`
	Token          string   `json:"token"`
	Images         []string `json:"images"`
	ConversationID ID       `json:"conversationId"`
}

// SendMessage triggers an agent turn. Images are read from disk and sent as data URLs.
func (c *Client) SendMessage(ctx context.Context, msg MessageRequest) error {
	images := make([]string, 0, len(msg.ImagePaths))
	for _, path := range msg.ImagePaths {
		encoded, err := EncodeImage(path)
		if err != nil {
			return err
		}
		images = append(images, encoded)
	}

	req, token, err := c.authed(ctx)
	if err != nil {
		return err
	}

	resp, err := req.
		SetHeader("Content-Type", "application/json").
		SetBody(messageBody{
			UserPrompt:     msg.Prompt,
			Token:          token,
			Images:         images,
			ConversationID: msg.ConversationID,
		}).
		SetError(&errorBody{}).
		Post("/ai/message/")
	return check("send message", resp, err)
}

// EncodeImage reads an image file into a base64 data URL
func EncodeImage(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	mime := http.DetectContentType(data)
	if !strings.HasPrefix(mime, "image/") {
		return "", fmt.Errorf("%s is not an image (%s)", path, mime)
	}

	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}
