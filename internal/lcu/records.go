package lcu

import (
	"time"

	"github.com/pable/go-lol-titles/internal/model"
)

// MatchRecords converts a match-history payload into newest-first records
// for puuid. A game in which puuid's participant cannot be located yields a
// record with nil Stats, as does a game that failed to decode; missing numeric
// fields read as zero.
func MatchRecords(puuid string, dto *MatchHistoryDTO) []model.MatchRecord {
	if dto == nil || dto.Games == nil {
		return nil
	}
	games := dto.Games.Games
	records := make([]model.MatchRecord, 0, len(games))
	for i := range games {
		g := &games[i]
		rec := model.MatchRecord{GameID: deref(g.GameID)}
		if g.GameCreation != nil {
			rec.CreatedAt = time.UnixMilli(*g.GameCreation).UTC()
		}
		if g.Malformed {
			records = append(records, rec)
			continue
		}
		if s := participantStats(puuid, g); s != nil {
			rec.Stats = toMatchStats(s)
		}
		records = append(records, rec)
	}
	return records
}

func participantStats(puuid string, g *GameDTO) *ParticipantStatsDTO {
	var pid *int
	for _, id := range g.ParticipantIdentities {
		if id.Player != nil && id.Player.PUUID != nil && *id.Player.PUUID == puuid {
			pid = id.ParticipantID
			break
		}
	}
	if pid == nil {
		return nil
	}
	for _, p := range g.Participants {
		if p.ParticipantID != nil && *p.ParticipantID == *pid {
			return p.Stats
		}
	}
	return nil
}

func toMatchStats(s *ParticipantStatsDTO) *model.MatchStats {
	return &model.MatchStats{
		DamageDealt:    deref(s.TotalDamageDealtToChampions),
		Healing:        deref(s.TotalHeal),
		DamageTaken:    deref(s.TotalDamageTaken),
		SelfMitigated:  deref(s.DamageSelfMitigated),
		Kills:          deref(s.Kills),
		Deaths:         deref(s.Deaths),
		Assists:        deref(s.Assists),
		CCTime:         deref(s.TimeCCingOthers),
		VisionScore:    deref(s.VisionScore),
		WardsPlaced:    deref(s.WardsPlaced),
		MinionsKilled:  deref(s.TotalMinionsKilled),
		Win:            deref(s.Win),
		Surrender:      deref(s.GameEndedInSurrender),
		EarlySurrender: deref(s.GameEndedInEarlySurrender),
	}
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

// Member is a lobby member the local player can see stats for.
type Member struct {
	PUUID      string
	SummonerID int64
	GameName   string
	GameTag    string
	IsLeader   bool
	IsLocal    bool
}

// LobbyMembers returns the local player and every lobby member who is on the
// local player's friends list, in lobby order. Members without a puuid and
// strangers are dropped. A lobby without a local member yields nil.
func LobbyMembers(lobby *LobbyDTO, friends []FriendDTO) []Member {
	if lobby == nil || lobby.LocalMember == nil || lobby.LocalMember.PUUID == nil {
		return nil
	}
	local := *lobby.LocalMember.PUUID

	byPUUID := make(map[string]FriendDTO, len(friends))
	for _, f := range friends {
		if f.PUUID != nil {
			byPUUID[*f.PUUID] = f
		}
	}

	var out []Member
	for _, m := range lobby.Members {
		if m.PUUID == nil {
			continue
		}
		puuid := *m.PUUID
		member := Member{
			PUUID:      puuid,
			SummonerID: deref(m.SummonerID),
			IsLeader:   deref(m.IsLeader),
		}
		if puuid == local {
			member.GameName = "You"
			member.IsLocal = true
		} else {
			f, ok := byPUUID[puuid]
			if !ok {
				continue
			}
			member.GameName = deref(f.GameName)
			if member.GameName == "" {
				member.GameName = puuid
			}
			member.GameTag = deref(f.GameTag)
		}
		out = append(out, member)
	}
	return out
}
