// Package gmail lists and fetches freight-quote request emails through the
// Gmail API.
package gmail

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/mvcarvalho/fretebot/config"
)

const (
	user = "me"

	// Listing is capped: only the newest qualifying message matters per
	// polling cycle.
	listLimit = 10
)

type Client struct {
	srv   *gmail.Service
	query string
}

// NewClient builds an authenticated Gmail client. A failure here is fatal to
// the process: the watcher never starts without a working mailbox
// connection.
func NewClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	b, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	httpClient, err := getOAuthClient(ctx, oauthConfig, cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	srv, err := gmail.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create Gmail service: %w", err)
	}
	return &Client{srv: srv, query: buildQuery(cfg.Rules)}, nil
}

// buildQuery turns the qualification rules into a Gmail search query.
func buildQuery(rules config.Rules) string {
	domain := strings.TrimPrefix(rules.SenderDomain, "@")
	return fmt.Sprintf("in:inbox subject:%s from:%s", rules.SubjectMarker, domain)
}

func getOAuthClient(ctx context.Context, oauthConfig *oauth2.Config, tokenFile string) (*http.Client, error) {
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		tok, err = getTokenFromWeb(ctx, oauthConfig)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenFile, tok); err != nil {
			return nil, err
		}
	}
	return oauthConfig.Client(ctx, tok), nil
}

func getTokenFromWeb(ctx context.Context, oauthConfig *oauth2.Config) (*oauth2.Token, error) {
	authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the "+
		"authorization code: \n%v\n", authURL)
	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("unable to read authorization code: %w", err)
	}
	tok, err := oauthConfig.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve token from web: %w", err)
	}
	return tok, nil
}

func tokenFromFile(file string) (*oauth2.Token, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	err = json.NewDecoder(f).Decode(tok)
	return tok, err
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("unable to save oauth token: %w", err)
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// ListQuoteRequests returns the ids of qualifying messages, newest first.
func (c *Client) ListQuoteRequests(ctx context.Context) ([]string, error) {
	list, err := c.srv.Users.Messages.List(user).
		Q(c.query).
		MaxResults(listLimit).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list messages: %w", err)
	}
	ids := make([]string, 0, len(list.Messages))
	for _, m := range list.Messages {
		ids = append(ids, m.Id)
	}
	return ids, nil
}

// FetchHeaders pulls only the Subject and From headers of a message.
func (c *Client) FetchHeaders(ctx context.Context, id string) (Headers, error) {
	msg, err := c.srv.Users.Messages.Get(user, id).
		Format("metadata").
		MetadataHeaders("Subject", "From").
		Context(ctx).
		Do()
	if err != nil {
		return Headers{}, fmt.Errorf("unable to fetch message headers: %w", err)
	}
	var h Headers
	if msg.Payload != nil {
		for _, header := range msg.Payload.Headers {
			switch header.Name {
			case "Subject":
				h.Subject = header.Value
			case "From":
				h.From = header.Value
			}
		}
	}
	return h, nil
}

// FetchBody pulls the full message and extracts its plain-text content,
// decoded with the charset fallback chain. An empty string means no
// text/plain part could be extracted.
func (c *Client) FetchBody(ctx context.Context, id string) (string, error) {
	msg, err := c.srv.Users.Messages.Get(user, id).
		Format("full").
		Context(ctx).
		Do()
	if err != nil {
		return "", fmt.Errorf("unable to fetch message %s: %w", id, err)
	}
	if msg.Payload == nil {
		return "", nil
	}
	part := findPlainTextPart(msg.Payload)
	if part == nil || part.Body == nil || part.Body.Data == "" {
		return "", nil
	}
	data, err := base64.URLEncoding.DecodeString(part.Body.Data)
	if err != nil {
		return "", fmt.Errorf("unable to decode message body: %w", err)
	}
	return decodeText(data, partCharset(part)), nil
}

// findPlainTextPart walks the MIME tree for the first text/plain part with
// content, descending into multipart containers.
func findPlainTextPart(payload *gmail.MessagePart) *gmail.MessagePart {
	if strings.HasPrefix(strings.ToLower(payload.MimeType), "text/plain") &&
		payload.Body != nil && payload.Body.Data != "" {
		return payload
	}
	for _, part := range payload.Parts {
		mimeType := strings.ToLower(part.MimeType)
		if strings.HasPrefix(mimeType, "text/") || strings.HasPrefix(mimeType, "multipart/") {
			if found := findPlainTextPart(part); found != nil {
				return found
			}
		}
	}
	return nil
}
