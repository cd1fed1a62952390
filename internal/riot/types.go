package riot

// API Base URLs
const (
	RIOT_AMERICAS_URL = "https://americas.api.riotgames.com"
	RIOT_NA1_URL      = "https://na1.api.riotgames.com"
)

// Account and Summoner Types

type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

type Summoner struct {
	PUUID         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	RevisionDate  int64  `json:"revisionDate"`
	SummonerLevel int    `json:"summonerLevel"`
}

// Champion Mastery v4 Types

type ChampionMastery struct {
	PUUID                        string   `json:"puuid"`
	ChampionID                   int64    `json:"championId"`
	ChampionLevel                int      `json:"championLevel"`
	ChampionPoints               int      `json:"championPoints"`
	ChampionPointsSinceLastLevel int64    `json:"championPointsSinceLastLevel"`
	ChampionPointsUntilNextLevel int64    `json:"championPointsUntilNextLevel"`
	ChestGranted                 bool     `json:"chestGranted"`
	LastPlayTime                 int64    `json:"lastPlayTime"`
	MarkRequiredForNextLevel     int      `json:"markRequiredForNextLevel"`
	ChampionSeasonMilestone      int      `json:"championSeasonMilestone"`
	TokensEarned                 int      `json:"tokensEarned"`
	MilestoneGrades              []string `json:"milestoneGrades"`
}

// League v4 Types

type LeagueEntry struct {
	LeagueID     string      `json:"leagueId"`
	PUUID        string      `json:"puuid"`
	QueueType    string      `json:"queueType"`
	Tier         string      `json:"tier"`
	Rank         string      `json:"rank"`
	LeaguePoints int         `json:"leaguePoints"`
	Wins         int         `json:"wins"`
	Losses       int         `json:"losses"`
	HotStreak    bool        `json:"hotStreak"`
	Veteran      bool        `json:"veteran"`
	FreshBlood   bool        `json:"freshBlood"`
	Inactive     bool        `json:"inactive"`
	MiniSeries   *MiniSeries `json:"miniSeries,omitempty"`
}

type MiniSeries struct {
	Losses   int    `json:"losses"`
	Progress string `json:"progress"`
	Target   int    `json:"target"`
	Wins     int    `json:"wins"`
}

// Match v5 Types

type Match struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	DataVersion  string   `json:"dataVersion"`
	MatchID      string   `json:"matchId"`
	Participants []string `json:"participants"`
}

type MatchInfo struct {
	EndOfGameResult    string        `json:"endOfGameResult"`
	GameCreation       int64         `json:"gameCreation"`
	GameDuration       int64         `json:"gameDuration"`
	GameEndTimestamp   int64         `json:"gameEndTimestamp"`
	GameID             int64         `json:"gameId"`
	GameMode           string        `json:"gameMode"`
	GameName           string        `json:"gameName"`
	GameStartTimestamp int64         `json:"gameStartTimestamp"`
	GameType           string        `json:"gameType"`
	GameVersion        string        `json:"gameVersion"`
	MapID              int           `json:"mapId"`
	Participants       []Participant `json:"participants"`
	PlatformID         string        `json:"platformId"`
	QueueID            int           `json:"queueId"`
	Teams              []Team        `json:"teams"`
	TournamentCode     string        `json:"tournamentCode"`
}

type Participant struct {
	PUUID                       string `json:"puuid"`
	RiotIDGameName              string `json:"riotIdGameName"`
	RiotIDTagline               string `json:"riotIdTagline"`
	SummonerName                string `json:"summonerName"`
	SummonerLevel               int    `json:"summonerLevel"`
	ChampionID                  int    `json:"championId"`
	ChampionName                string `json:"championName"`
	ChampLevel                  int    `json:"champLevel"`
	TeamID                      int    `json:"teamId"`
	TeamPosition                string `json:"teamPosition"`
	Kills                       int    `json:"kills"`
	Deaths                      int    `json:"deaths"`
	Assists                     int    `json:"assists"`
	PentaKills                  int    `json:"pentaKills"`
	BaronKills                  int    `json:"baronKills"`
	DragonKills                 int    `json:"dragonKills"`
	TurretKills                 int    `json:"turretKills"`
	TurretTakedowns             int    `json:"turretTakedowns"`
	FirstBloodKill              bool   `json:"firstBloodKill"`
	FirstTowerKill              bool   `json:"firstTowerKill"`
	GoldEarned                  int    `json:"goldEarned"`
	TotalDamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	TotalMinionsKilled          int    `json:"totalMinionsKilled"`
	VisionScore                 int    `json:"visionScore"`
	WardsKilled                 int    `json:"wardsKilled"`
	WardsPlaced                 int    `json:"wardsPlaced"`
	TimePlayed                  int    `json:"timePlayed"`
	TeamEarlySurrendered        bool   `json:"teamEarlySurrendered"`
	Win                         bool   `json:"win"`
}

type Team struct {
	TeamID int   `json:"teamId"`
	Win    bool  `json:"win"`
	Bans   []Ban `json:"bans"`
}

type Ban struct {
	ChampionID int `json:"championId"`
	PickTurn   int `json:"pickTurn"`
}

// Participant returns the entry in the match belonging to puuid.
func (m *Match) Participant(puuid string) (*Participant, bool) {
	for i := range m.Info.Participants {
		if m.Info.Participants[i].PUUID == puuid {
			return &m.Info.Participants[i], true
		}
	}
	return nil, false
}

// errorBody is the envelope Riot returns alongside non-2xx responses.
type errorBody struct {
	Status struct {
		Message    string `json:"message"`
		StatusCode int    `json:"status_code"`
	} `json:"status"`
}
