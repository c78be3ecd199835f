package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// DefaultAPIBase is the public Bot API endpoint; tests point Base elsewhere.
const DefaultAPIBase = "https://api.telegram.org"

const maxAPIBody = 1 * 1024 * 1024

// maxPollSeconds keeps the getUpdates long-poll window under the HTTP
// client's 75s call timeout.
const maxPollSeconds = 60

// Update is one incoming event from getUpdates.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message"`
}

type Message struct {
	MessageID int64  `json:"message_id"`
	From      *User  `json:"from"`
	Chat      Chat   `json:"chat"`
	Text      string `json:"text"`
}

type User struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	Username  string `json:"username"`
}

type Chat struct {
	ID int64 `json:"id"`
}

// Telegram is a minimal Bot API client: long-poll in, plain text out. The
// limiter keeps outbound calls under the Bot API's global send budget.
type Telegram struct {
	Base    string
	Token   string
	Client  *http.Client
	limiter *rate.Limiter
}

func NewTelegram(token, base string, msgRate float64, burst int) *Telegram {
	if token == "" {
		return nil
	}
	if base == "" {
		base = DefaultAPIBase
	}
	if msgRate <= 0 {
		msgRate = 25
	}
	if burst <= 0 {
		burst = 5
	}
	return &Telegram{
		Base:  strings.TrimRight(base, "/"),
		Token: token,
		// Long polls hold the connection open well past a normal
		// request timeout.
		Client:  &http.Client{Timeout: 75 * time.Second},
		limiter: rate.NewLimiter(rate.Limit(msgRate), burst),
	}
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (t *Telegram) call(ctx context.Context, method string, payload, out any) error {
	if t == nil || t.Token == "" {
		return errors.New("telegram disabled")
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return err
	}
	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.Base+"/bot"+t.Token+"/"+method, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var ar apiResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxAPIBody)).Decode(&ar); err != nil {
		return fmt.Errorf("%s: decode: %w", method, err)
	}
	if !ar.OK {
		if ar.Description != "" {
			return fmt.Errorf("%s: %s", method, ar.Description)
		}
		return fmt.Errorf("%s: non-ok response (http %d)", method, resp.StatusCode)
	}
	if out != nil && ar.Result != nil {
		if err := json.Unmarshal(ar.Result, out); err != nil {
			return fmt.Errorf("%s: result: %w", method, err)
		}
	}
	return nil
}

// GetMe confirms the token works and reports the bot identity.
func (t *Telegram) GetMe(ctx context.Context) (User, error) {
	var u User
	err := t.call(ctx, "getMe", struct{}{}, &u)
	return u, err
}

type getUpdatesRequest struct {
	Offset         int64    `json:"offset,omitempty"`
	Timeout        int      `json:"timeout"`
	AllowedUpdates []string `json:"allowed_updates,omitempty"`
}

// GetUpdates long-polls for up to pollSeconds, clamped to maxPollSeconds,
// and returns whatever arrived.
func (t *Telegram) GetUpdates(ctx context.Context, offset int64, pollSeconds int) ([]Update, error) {
	if pollSeconds > maxPollSeconds {
		pollSeconds = maxPollSeconds
	}
	var ups []Update
	err := t.call(ctx, "getUpdates", getUpdatesRequest{
		Offset:         offset,
		Timeout:        pollSeconds,
		AllowedUpdates: []string{"message"},
	}, &ups)
	return ups, err
}

type sendMessageRequest struct {
	ChatID                int64  `json:"chat_id"`
	Text                  string `json:"text"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

func (t *Telegram) SendMessage(ctx context.Context, chatID int64, text string) error {
	return t.call(ctx, "sendMessage", sendMessageRequest{
		ChatID:                chatID,
		Text:                  text,
		DisableWebPagePreview: true,
	}, nil)
}

func (t *Telegram) SendChatAction(ctx context.Context, chatID int64, action string) error {
	return t.call(ctx, "sendChatAction", struct {
		ChatID int64  `json:"chat_id"`
		Action string `json:"action"`
	}{chatID, action}, nil)
}
