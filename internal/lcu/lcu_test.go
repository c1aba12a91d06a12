package lcu

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

const historyJSON = `{
  "accountId": 1,
  "games": {
    "gameCount": 3,
    "games": [
      {
        "gameId": 300,
        "gameCreation": 1700000000000,
        "participantIdentities": [
          {"participantId": 1, "player": {"puuid": "other"}},
          {"participantId": 7, "player": {"puuid": "me"}}
        ],
        "participants": [
          {"participantId": 1, "stats": {"kills": 99}},
          {"participantId": 7, "stats": {
            "totalDamageDealtToChampions": 25000, "totalHeal": 1200, "totalDamageTaken": 18000,
            "damageSelfMitigated": 9000, "timeCCingOthers": 22, "visionScore": 31,
            "wardsPlaced": 9, "totalMinionsKilled": 187, "kills": 8, "deaths": 3,
            "assists": 11, "win": true, "gameEndedInSurrender": false,
            "gameEndedInEarlySurrender": true
          }}
        ]
      },
      {
        "gameId": 200,
        "participantIdentities": [{"participantId": 2, "player": {"puuid": "someone"}}],
        "participants": [{"participantId": 2, "stats": {"kills": 1}}]
      },
      {
        "gameId": 100,
        "participantIdentities": [{"participantId": 4, "player": {"puuid": "me"}}],
        "participants": [{"participantId": 4, "stats": {"deaths": 5}}]
      }
    ]
  }
}`

// newTestClient serves handler over an in-memory listener and returns a
// client dialing it.
func newTestClient(t *testing.T, handler fasthttp.RequestHandler) *Client {
	t.Helper()
	ln := fasthttputil.NewInmemoryListener()
	srv := &fasthttp.Server{Handler: handler}
	go srv.Serve(ln) //nolint:errcheck
	t.Cleanup(func() { ln.Close() })

	auth := Auth{Port: 2999, Password: "secret", Protocol: "http"}
	return NewClient(auth, zerolog.Nop(), WithDial(ln.Dial))
}

func wantAuth(ctx *fasthttp.RequestCtx) bool {
	want := "Basic " + base64.StdEncoding.EncodeToString([]byte("riot:secret"))
	if string(ctx.Request.Header.Peek("Authorization")) != want {
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
		return false
	}
	return true
}

func TestClient_FetchHistory(t *testing.T) {
	var gotEnd string
	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		if !wantAuth(ctx) {
			return
		}
		if string(ctx.Path()) != "/lol-match-history/v1/products/lol/me/matches" {
			ctx.SetStatusCode(fasthttp.StatusNotFound)
			return
		}
		gotEnd = string(ctx.QueryArgs().Peek("endIndex"))
		ctx.SetContentType("application/json")
		ctx.SetBodyString(historyJSON)
	})

	records, err := c.FetchHistory(context.Background(), "me", 20)
	if err != nil {
		t.Fatalf("FetchHistory: %v", err)
	}
	if gotEnd != "19" {
		t.Errorf("endIndex: want 19, got %q", gotEnd)
	}
	if len(records) != 3 {
		t.Fatalf("want 3 records, got %d", len(records))
	}

	first := records[0]
	if first.GameID != 300 || first.Stats == nil {
		t.Fatalf("first record: %+v", first)
	}
	s := first.Stats
	if s.DamageDealt != 25000 || s.Kills != 8 || s.MinionsKilled != 187 || !s.Win || !s.Surrendered() {
		t.Errorf("first record stats mismatch: %+v", s)
	}
	if !first.CreatedAt.Equal(time.UnixMilli(1700000000000)) {
		t.Errorf("CreatedAt: got %s", first.CreatedAt)
	}

	if records[1].Stats != nil {
		t.Errorf("game without the player must be unresolved, got %+v", records[1].Stats)
	}
	if records[2].Stats == nil || records[2].Stats.Deaths != 5 || records[2].Stats.DamageDealt != 0 {
		t.Errorf("sparse stats: %+v", records[2].Stats)
	}
}

func TestClient_StatusMapping(t *testing.T) {
	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/lol-lobby/v2/lobby":
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		default:
			ctx.SetStatusCode(fasthttp.StatusServiceUnavailable)
		}
	})

	if _, err := c.GetLobby(context.Background()); !errors.Is(err, ErrNotFound) {
		t.Errorf("lobby 404: want ErrNotFound, got %v", err)
	}
	if err := c.Ping(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("ping 503: want ErrUnavailable, got %v", err)
	}
}

func TestClient_BadAuthIsUnavailable(t *testing.T) {
	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	})
	if err := c.Ping(context.Background()); !errors.Is(err, ErrUnavailable) {
		t.Errorf("want ErrUnavailable, got %v", err)
	}
}

func TestClient_LobbyAndFriends(t *testing.T) {
	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
		if !wantAuth(ctx) {
			return
		}
		ctx.SetContentType("application/json")
		switch string(ctx.Path()) {
		case "/lol-lobby/v2/lobby":
			ctx.SetBodyString(`{"localMember":{"puuid":"me"},"members":[
				{"puuid":"me","summonerId":1,"isLeader":true},
				{"puuid":"friend","summonerId":2},
				{"puuid":"stranger","summonerId":3},
				{"summonerId":4}
			]}`)
		case "/lol-chat/v1/friends":
			ctx.SetBodyString(`[{"puuid":"friend","gameName":"Teemo","gameTag":"EUW"},{"puuid":"absent"}]`)
		default:
			ctx.SetStatusCode(fasthttp.StatusNotFound)
		}
	})

	ctx := context.Background()
	lobby, err := c.GetLobby(ctx)
	if err != nil {
		t.Fatalf("GetLobby: %v", err)
	}
	friends, err := c.GetFriends(ctx)
	if err != nil {
		t.Fatalf("GetFriends: %v", err)
	}

	members := LobbyMembers(lobby, friends)
	if len(members) != 2 {
		t.Fatalf("want 2 members, got %+v", members)
	}
	if m := members[0]; m.PUUID != "me" || m.GameName != "You" || !m.IsLocal || !m.IsLeader {
		t.Errorf("local member: %+v", m)
	}
	if m := members[1]; m.PUUID != "friend" || m.GameName != "Teemo" || m.GameTag != "EUW" || m.SummonerID != 2 {
		t.Errorf("friend member: %+v", m)
	}
}

func TestClient_CancelledContext(t *testing.T) {
	c := newTestClient(t, func(ctx *fasthttp.RequestCtx) {})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Ping(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}

func TestLobbyMembers_NoLocalMember(t *testing.T) {
	if got := LobbyMembers(&LobbyDTO{}, nil); got != nil {
		t.Errorf("want nil, got %+v", got)
	}
	if got := LobbyMembers(nil, nil); got != nil {
		t.Errorf("want nil, got %+v", got)
	}
}

func TestLobbyMembers_FriendWithoutName(t *testing.T) {
	me, pal := "me", "pal"
	lobby := &LobbyDTO{
		LocalMember: &LobbyMemberDTO{PUUID: &me},
		Members:     []LobbyMemberDTO{{PUUID: &pal}},
	}
	members := LobbyMembers(lobby, []FriendDTO{{PUUID: &pal}})
	if len(members) != 1 || members[0].GameName != "pal" {
		t.Errorf("unnamed friend should fall back to puuid: %+v", members)
	}
}

func TestMatchRecords_Empty(t *testing.T) {
	if got := MatchRecords("me", nil); got != nil {
		t.Errorf("nil payload: want nil, got %v", got)
	}
	if got := MatchRecords("me", &MatchHistoryDTO{}); got != nil {
		t.Errorf("no games: want nil, got %v", got)
	}
}

func TestDecodeMatchHistory_MalformedGameKeepsPosition(t *testing.T) {
	body := `{"games":{"gameCount":3,"games":[
		{"gameId":3,"participantIdentities":[{"participantId":1,"player":{"puuid":"me"}}],
		 "participants":[{"participantId":1,"stats":{"totalDamageDealtToChampions":900,"win":true}}]},
		{"gameId":2,"gameCreation":1700000000000,"participantIdentities":[{"participantId":1,"player":{"puuid":"me"}}],
		 "participants":[{"participantId":1,"stats":{"totalDamageDealtToChampions":100.5}}]},
		{"gameId":1,"participantIdentities":[{"participantId":1,"player":{"puuid":"me"}}],
		 "participants":[{"participantId":1,"stats":{"deaths":4}}]}
	]}}`

	dto, err := DecodeMatchHistory([]byte(body))
	if err != nil {
		t.Fatalf("DecodeMatchHistory: %v", err)
	}
	if dto.Games == nil || len(dto.Games.Games) != 3 {
		t.Fatalf("want 3 games, got %+v", dto.Games)
	}
	if !dto.Games.Games[1].Malformed || dto.Games.Games[0].Malformed || dto.Games.Games[2].Malformed {
		t.Errorf("only the middle game should be malformed")
	}

	records := MatchRecords("me", dto)
	if len(records) != 3 {
		t.Fatalf("want 3 records, got %d", len(records))
	}
	if records[0].Stats == nil || records[0].Stats.DamageDealt != 900 {
		t.Errorf("first record: %+v", records[0].Stats)
	}
	bad := records[1]
	if bad.GameID != 2 || bad.Stats != nil {
		t.Errorf("malformed game: want id 2 with nil stats, got %+v", bad)
	}
	if !bad.CreatedAt.Equal(time.UnixMilli(1700000000000)) {
		t.Errorf("malformed game CreatedAt: got %s", bad.CreatedAt)
	}
	if records[2].Stats == nil || records[2].Stats.Deaths != 4 {
		t.Errorf("last record: %+v", records[2].Stats)
	}
}

func TestDecodeMatchHistory_BadEnvelope(t *testing.T) {
	if _, err := DecodeMatchHistory([]byte(`{"games":[]}`)); err == nil {
		t.Error("expected error when games is not an object")
	}
	dto, err := DecodeMatchHistory([]byte(`{}`))
	if err != nil || dto.Games != nil {
		t.Errorf("empty payload: dto=%+v err=%v", dto, err)
	}
}

func TestParseLockfile(t *testing.T) {
	auth, err := ParseLockfile("LeagueClient:12345:54321:s3cr3t:https\n")
	if err != nil {
		t.Fatalf("ParseLockfile: %v", err)
	}
	want := Auth{Name: "LeagueClient", PID: 12345, Port: 54321, Password: "s3cr3t", Protocol: "https"}
	if auth != want {
		t.Errorf("want %+v, got %+v", want, auth)
	}

	for _, bad := range []string{
		"",
		"LeagueClient:1:2:pw",
		"LeagueClient:x:2:pw:https",
		"LeagueClient:1:port:pw:https",
		"LeagueClient:1:70000:pw:https",
		"LeagueClient:1:2::https",
	} {
		if _, err := ParseLockfile(bad); err == nil {
			t.Errorf("ParseLockfile(%q): expected error", bad)
		}
	}
}

func TestReadLockfile(t *testing.T) {
	dir := t.TempDir()

	if _, err := ReadLockfile(filepath.Join(dir, "lockfile")); !errors.Is(err, ErrUnavailable) {
		t.Errorf("missing lockfile: want ErrUnavailable, got %v", err)
	}

	path := filepath.Join(dir, "lockfile")
	if err := os.WriteFile(path, []byte("LeagueClient:1:2999:pw:https"), 0o600); err != nil {
		t.Fatal(err)
	}
	auth, err := ReadLockfile(path)
	if err != nil {
		t.Fatalf("ReadLockfile: %v", err)
	}
	if auth.Port != 2999 || auth.Password != "pw" {
		t.Errorf("unexpected auth %+v", auth)
	}
}
