package worldv1

// Empty is the request of parameterless procedures.
type Empty struct{}

// RangeRequest selects [StartIndex, EndIndex) of an append-only list.
type RangeRequest struct {
	StartIndex int `json:"startIndex"`
	EndIndex   int `json:"endIndex"`
}

// IDsRequest selects records by id.
type IDsRequest struct {
	IDs []string `json:"ids"`
}

// CountResponse carries the length of an append-only list.
type CountResponse struct {
	Count int `json:"count"`
}

// IDsResponse carries one page of ids.
type IDsResponse struct {
	IDs []string `json:"ids"`
}

// Constants are the world-wide game parameters.
type Constants struct {
	WorldRadiusMin         int64   `json:"worldRadiusMin"`
	PlanetRarity           int64   `json:"planetRarity"`
	TimeFactorHundredths   int64   `json:"timeFactorHundredths"`
	PhotoidActivationDelay int64   `json:"photoidActivationDelay"`
	LocationRevealCooldown int64   `json:"locationRevealCooldown"`
	SpaceJunkEnabled       bool    `json:"spaceJunkEnabled"`
	PlanetLevelThresholds  []int64 `json:"planetLevelThresholds"`
}

// ConstantsResponse is returned by GetConstants.
type ConstantsResponse struct {
	Constants Constants `json:"constants"`
}

// WorldRadiusResponse is returned by GetWorldRadius.
type WorldRadiusResponse struct {
	Radius int64 `json:"radius"`
}

// Player is one registered player.
type Player struct {
	Address             string `json:"address"`
	HomePlanetID        string `json:"homePlanetId"`
	InitTimestamp       int64  `json:"initTimestamp"`
	LastRevealTimestamp int64  `json:"lastRevealTimestamp"`
	Score               uint64 `json:"score"`
	SpaceJunk           int64  `json:"spaceJunk"`
}

// PlayersResponse carries one page of players.
type PlayersResponse struct {
	Players []Player `json:"players"`
}

// RevealedCoords is a publicly revealed planet location.
type RevealedCoords struct {
	Hash     string `json:"hash"`
	X        int64  `json:"x"`
	Y        int64  `json:"y"`
	Revealer string `json:"revealer"`
}

// RevealedCoordsResponse is aligned with the request ids.
type RevealedCoordsResponse struct {
	Coords []RevealedCoords `json:"coords"`
}

// Arrival is one pending voyage.
type Arrival struct {
	EventID        string `json:"eventId"`
	Player         string `json:"player"`
	FromPlanet     string `json:"fromPlanet"`
	ToPlanet       string `json:"toPlanet"`
	EnergyArriving int64  `json:"energyArriving"`
	SilverMoved    int64  `json:"silverMoved"`
	DepartureTime  int64  `json:"departureTime"`
	ArrivalTime    int64  `json:"arrivalTime"`
	ArrivalType    int    `json:"arrivalType"`
	// CarriedArtifactID is empty when the voyage carries nothing.
	CarriedArtifactID string `json:"carriedArtifactId,omitempty"`
}

// ArrivalList holds the arrivals destined for one planet.
type ArrivalList struct {
	Arrivals []Arrival `json:"arrivals"`
}

// ArrivalsResponse is aligned with the request ids.
type ArrivalsResponse struct {
	Planets []ArrivalList `json:"planets"`
}

// Planet is the mutable state of one planet.
type Planet struct {
	IsInitialized   bool     `json:"isInitialized"`
	LocationID      string   `json:"locationId"`
	Owner           string   `json:"owner"`
	PlanetLevel     int      `json:"planetLevel"`
	PlanetType      int      `json:"planetType"`
	Energy          int64    `json:"energy"`
	EnergyCap       int64    `json:"energyCap"`
	EnergyGrowth    int64    `json:"energyGrowth"`
	Silver          int64    `json:"silver"`
	SilverCap       int64    `json:"silverCap"`
	SilverGrowth    int64    `json:"silverGrowth"`
	Range           int64    `json:"range"`
	Speed           int64    `json:"speed"`
	Defense         int64    `json:"defense"`
	IsHomePlanet    bool     `json:"isHomePlanet"`
	LastUpdated     int64    `json:"lastUpdated"`
	HeldArtifactIDs []string `json:"heldArtifactIds"`
}

// PlanetsResponse is aligned with the request ids.
type PlanetsResponse struct {
	Planets []Planet `json:"planets"`
}

// PlanetMetadata is the extended, rarely changing planet state.
type PlanetMetadata struct {
	LocationID              string `json:"locationId"`
	HasTriedFindingArtifact bool   `json:"hasTriedFindingArtifact"`
	ProspectedBlockNumber   int64  `json:"prospectedBlockNumber"`
	Destroyed               bool   `json:"destroyed"`
	SpaceJunk               int64  `json:"spaceJunk"`
}

// PlanetMetadataResponse is aligned with the request ids.
type PlanetMetadataResponse struct {
	Metadata []PlanetMetadata `json:"metadata"`
}

// Artifact is one artifact and its current location.
type Artifact struct {
	ID                 string `json:"id"`
	PlanetDiscoveredOn string `json:"planetDiscoveredOn"`
	Rarity             int    `json:"rarity"`
	ArtifactType       int    `json:"artifactType"`
	Discoverer         string `json:"discoverer"`
	CurrentOwner       string `json:"currentOwner"`
	MintedAt           int64  `json:"mintedAt"`
	OnPlanet           string `json:"onPlanet,omitempty"`
	OnVoyage           string `json:"onVoyage,omitempty"`
}

// ArtifactsResponse is aligned with the request ids.
type ArtifactsResponse struct {
	Artifacts []Artifact `json:"artifacts"`
}

// ArtifactList holds the artifacts on one planet.
type ArtifactList struct {
	Artifacts []Artifact `json:"artifacts"`
}

// ArtifactsOnPlanetsResponse is aligned with the request ids.
type ArtifactsOnPlanetsResponse struct {
	Planets []ArtifactList `json:"planets"`
}
