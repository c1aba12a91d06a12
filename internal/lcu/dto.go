package lcu

// LCU payloads. Every field the client may omit is a pointer so "absent"
// and "zero" stay distinguishable; only what the evaluator reads is mapped.

type MatchHistoryDTO struct {
	AccountID *int64    `json:"accountId"`
	Games     *GamesDTO `json:"games"`
}

type GamesDTO struct {
	GameCount *int      `json:"gameCount"`
	Games     []GameDTO `json:"games"`
}

type GameDTO struct {
	GameID                *int64                   `json:"gameId"`
	GameCreation          *int64                   `json:"gameCreation"` // unix millis
	GameDuration          *int                     `json:"gameDuration"`
	QueueID               *int                     `json:"queueId"`
	ParticipantIdentities []ParticipantIdentityDTO `json:"participantIdentities"`
	Participants          []ParticipantDTO         `json:"participants"`

	// Malformed marks a game whose body failed to decode; its stats are
	// unknown but it keeps its slot in the history.
	Malformed bool `json:"-"`
}

type ParticipantIdentityDTO struct {
	ParticipantID *int       `json:"participantId"`
	Player        *PlayerDTO `json:"player"`
}

type PlayerDTO struct {
	PUUID        *string `json:"puuid"`
	GameName     *string `json:"gameName"`
	TagLine      *string `json:"tagLine"`
	SummonerName *string `json:"summonerName"`
}

type ParticipantDTO struct {
	ParticipantID *int                 `json:"participantId"`
	ChampionID    *int                 `json:"championId"`
	Stats         *ParticipantStatsDTO `json:"stats"`
}

type ParticipantStatsDTO struct {
	TotalDamageDealtToChampions *int  `json:"totalDamageDealtToChampions"`
	TotalHeal                   *int  `json:"totalHeal"`
	TotalDamageTaken            *int  `json:"totalDamageTaken"`
	DamageSelfMitigated         *int  `json:"damageSelfMitigated"`
	TimeCCingOthers             *int  `json:"timeCCingOthers"`
	VisionScore                 *int  `json:"visionScore"`
	WardsPlaced                 *int  `json:"wardsPlaced"`
	TotalMinionsKilled          *int  `json:"totalMinionsKilled"`
	Kills                       *int  `json:"kills"`
	Deaths                      *int  `json:"deaths"`
	Assists                     *int  `json:"assists"`
	Win                         *bool `json:"win"`
	GameEndedInSurrender        *bool `json:"gameEndedInSurrender"`
	GameEndedInEarlySurrender   *bool `json:"gameEndedInEarlySurrender"`
}

type LobbyDTO struct {
	LocalMember *LobbyMemberDTO  `json:"localMember"`
	Members     []LobbyMemberDTO `json:"members"`
}

type LobbyMemberDTO struct {
	PUUID      *string `json:"puuid"`
	SummonerID *int64  `json:"summonerId"`
	IsLeader   *bool   `json:"isLeader"`
}

type FriendDTO struct {
	PUUID    *string `json:"puuid"`
	GameName *string `json:"gameName"`
	GameTag  *string `json:"gameTag"`
}
