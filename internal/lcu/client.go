// Package lcu talks to the League client's local REST API (the LCU): match
// history, the current lobby and the friends list.
package lcu

import (
	"context"
	"crypto/tls"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/pable/go-lol-titles/internal/constants"
	"github.com/pable/go-lol-titles/internal/model"
)

var (
	// ErrNotFound is returned when the LCU answers 404, e.g. no active lobby.
	ErrNotFound = errors.New("lcu: not found")
	// ErrUnavailable is returned when the client is not running or not ready.
	ErrUnavailable = errors.New("lcu: unavailable")
)

type Client struct {
	baseURL string
	auth    string
	client  *fasthttp.Client
	logger  zerolog.Logger
}

type Option func(*fasthttp.Client)

// WithDial replaces the client's dialer, e.g. with an in-memory listener.
func WithDial(dial func() (net.Conn, error)) Option {
	return func(c *fasthttp.Client) {
		c.Dial = func(string) (net.Conn, error) { return dial() }
	}
}

// NewClient returns a client for the LCU described by auth. The LCU serves a
// self-signed certificate on loopback, so verification is disabled.
func NewClient(auth Auth, logger zerolog.Logger, opts ...Option) *Client {
	scheme := auth.Protocol
	if scheme == "" {
		scheme = "https"
	}
	fc := &fasthttp.Client{
		ReadTimeout:         constants.LCUTimeout,
		WriteTimeout:        constants.LCUTimeout,
		MaxIdleConnDuration: time.Minute,
		TLSConfig:           &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // loopback only
	}
	for _, opt := range opts {
		opt(fc)
	}
	token := base64.StdEncoding.EncodeToString([]byte(constants.LCUUser + ":" + auth.Password))
	return &Client{
		baseURL: fmt.Sprintf("%s://%s:%d", scheme, constants.LCUHost, auth.Port),
		auth:    "Basic " + token,
		client:  fc,
		logger:  logger.With().Str("component", "lcu").Logger(),
	}
}

// Ping reports whether the client is up and answering.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.get(ctx, "/telemetry/v1/application-start-time")
	return err
}

// RawMatchHistory returns the undecoded match-history payload for the newest
// count games of puuid.
func (c *Client) RawMatchHistory(ctx context.Context, puuid string, count int) ([]byte, error) {
	if count < 1 {
		count = constants.DefaultHistorySize
	}
	path := fmt.Sprintf("/lol-match-history/v1/products/lol/%s/matches?begIndex=0&endIndex=%d", puuid, count-1)
	return c.get(ctx, path)
}

func (c *Client) GetMatchHistory(ctx context.Context, puuid string, count int) (*MatchHistoryDTO, error) {
	body, err := c.RawMatchHistory(ctx, puuid, count)
	if err != nil {
		return nil, err
	}
	return DecodeMatchHistory(body)
}

// FetchHistory returns puuid's newest count games as match records.
func (c *Client) FetchHistory(ctx context.Context, puuid string, count int) ([]model.MatchRecord, error) {
	dto, err := c.GetMatchHistory(ctx, puuid, count)
	if err != nil {
		return nil, err
	}
	return MatchRecords(puuid, dto), nil
}

func (c *Client) GetLobby(ctx context.Context) (*LobbyDTO, error) {
	return getJSON[LobbyDTO](ctx, c, "/lol-lobby/v2/lobby")
}

func (c *Client) GetFriends(ctx context.Context) ([]FriendDTO, error) {
	friends, err := getJSON[[]FriendDTO](ctx, c, "/lol-chat/v1/friends")
	if err != nil {
		return nil, err
	}
	return *friends, nil
}

// DecodeMatchHistory decodes a match-history payload. Games are decoded one
// at a time: a game that does not fit the expected shape is kept in place
// as a Malformed entry carrying whatever id and creation time could be read.
func DecodeMatchHistory(body []byte) (*MatchHistoryDTO, error) {
	var envelope struct {
		AccountID *int64 `json:"accountId"`
		Games     *struct {
			GameCount *int              `json:"gameCount"`
			Games     []json.RawMessage `json:"games"`
		} `json:"games"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode match history: %w", err)
	}
	dto := &MatchHistoryDTO{AccountID: envelope.AccountID}
	if envelope.Games == nil {
		return dto, nil
	}
	dto.Games = &GamesDTO{
		GameCount: envelope.Games.GameCount,
		Games:     make([]GameDTO, 0, len(envelope.Games.Games)),
	}
	for _, raw := range envelope.Games.Games {
		dto.Games.Games = append(dto.Games.Games, decodeGame(raw))
	}
	return dto, nil
}

func decodeGame(raw json.RawMessage) GameDTO {
	var g GameDTO
	if err := json.Unmarshal(raw, &g); err == nil {
		return g
	}
	var head struct {
		GameID       *int64 `json:"gameId"`
		GameCreation *int64 `json:"gameCreation"`
	}
	_ = json.Unmarshal(raw, &head)
	return GameDTO{GameID: head.GameID, GameCreation: head.GameCreation, Malformed: true}
}

func getJSON[T any](ctx context.Context, c *Client, path string) (*T, error) {
	body, err := c.get(ctx, path)
	if err != nil {
		return nil, err
	}
	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &result, nil
}

// get performs an authenticated GET and returns a copy of the body.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Authorization", c.auth)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, constants.LCUTimeout)
	}
	if err != nil {
		c.logger.Debug().Err(err).Str("path", path).Msg("request failed")
		return nil, fmt.Errorf("get %s: %w: %v", path, ErrUnavailable, err)
	}

	status := resp.StatusCode()
	c.logger.Debug().
		Str("path", path).
		Int("status", status).
		Dur("duration", time.Since(start)).
		Msg("lcu request")

	switch {
	case status == fasthttp.StatusOK:
	case status == fasthttp.StatusNotFound:
		return nil, fmt.Errorf("get %s: %w", path, ErrNotFound)
	default:
		return nil, fmt.Errorf("get %s: %w: status %d", path, ErrUnavailable, status)
	}

	body := resp.Body()
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}
