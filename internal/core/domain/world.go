package domain

// EntityID identifies a planet by its location hash. Stable across sessions.
type EntityID string

// VoyageID identifies one arrival event. Globally unique.
type VoyageID string

// ArtifactID identifies an artifact.
type ArtifactID string

// Address identifies a player account.
type Address string

// EmptyAddress is the owner of unclaimed planets.
const EmptyAddress Address = "0x0000000000000000000000000000000000000000"

// Coords is a point in world space.
type Coords struct {
	X int64 `json:"x" yaml:"x"`
	Y int64 `json:"y" yaml:"y"`
}

// RevealedCoords records a location disclosed on chain by a reveal action.
// There is at most one per planet.
type RevealedCoords struct {
	Hash     EntityID `json:"hash" yaml:"hash"`
	Coords   Coords   `json:"coords" yaml:"coords"`
	Revealer Address  `json:"revealer" yaml:"revealer"`
}

// ArrivalType distinguishes how a voyage was launched.
type ArrivalType int

const (
	ArrivalNormal ArrivalType = iota
	ArrivalPhotoid
	ArrivalWormhole
)

// String returns the display name of the arrival type.
func (t ArrivalType) String() string {
	switch t {
	case ArrivalPhotoid:
		return "photoid"
	case ArrivalWormhole:
		return "wormhole"
	default:
		return "normal"
	}
}

// Arrival is an in-flight transfer from one planet to another.
type Arrival struct {
	EventID        VoyageID    `json:"event_id" yaml:"event_id"`
	Player         Address     `json:"player" yaml:"player"`
	FromPlanet     EntityID    `json:"from_planet" yaml:"from_planet"`
	ToPlanet       EntityID    `json:"to_planet" yaml:"to_planet"`
	EnergyArriving float64     `json:"energy_arriving" yaml:"energy_arriving"`
	SilverMoved    float64     `json:"silver_moved" yaml:"silver_moved"`
	DepartureTime  int64       `json:"departure_time" yaml:"departure_time"`
	ArrivalTime    int64       `json:"arrival_time" yaml:"arrival_time"`
	ArrivalType    ArrivalType `json:"arrival_type" yaml:"arrival_type"`
	ArtifactID     ArtifactID  `json:"artifact_id,omitempty" yaml:"artifact_id,omitempty"`
}

// CarriesArtifact reports whether an artifact travels with this arrival.
func (a Arrival) CarriesArtifact() bool {
	return a.ArtifactID != ""
}

// PlanetType is the biome-independent class of a planet.
type PlanetType int

const (
	PlanetTypePlanet PlanetType = iota
	PlanetTypeSilverMine
	PlanetTypeRuins
	PlanetTypeTradingPost
	PlanetTypeSilverBank
)

// PlanetMetadata is the slow-changing half of a planet record, fetched separately.
type PlanetMetadata struct {
	LocationID              EntityID `json:"location_id" yaml:"location_id"`
	HasTriedFindingArtifact bool     `json:"has_tried_finding_artifact" yaml:"has_tried_finding_artifact"`
	ProspectedBlockNumber   int64    `json:"prospected_block_number,omitempty" yaml:"prospected_block_number,omitempty"`
	Destroyed               bool     `json:"destroyed" yaml:"destroyed"`
	SpaceJunk               int64    `json:"space_junk" yaml:"space_junk"`
}

// Planet is the full state of one world entity.
type Planet struct {
	LocationID      EntityID       `json:"location_id" yaml:"location_id"`
	Owner           Address        `json:"owner" yaml:"owner"`
	PlanetLevel     int            `json:"planet_level" yaml:"planet_level"`
	PlanetType      PlanetType     `json:"planet_type" yaml:"planet_type"`
	Energy          float64        `json:"energy" yaml:"energy"`
	EnergyCap       float64        `json:"energy_cap" yaml:"energy_cap"`
	EnergyGrowth    float64        `json:"energy_growth" yaml:"energy_growth"`
	Silver          float64        `json:"silver" yaml:"silver"`
	SilverCap       float64        `json:"silver_cap" yaml:"silver_cap"`
	SilverGrowth    float64        `json:"silver_growth" yaml:"silver_growth"`
	Range           int64          `json:"range" yaml:"range"`
	Speed           int64          `json:"speed" yaml:"speed"`
	Defense         int64          `json:"defense" yaml:"defense"`
	IsHomePlanet    bool           `json:"is_home_planet" yaml:"is_home_planet"`
	LastUpdated     int64          `json:"last_updated" yaml:"last_updated"`
	HeldArtifactIDs []ArtifactID   `json:"held_artifact_ids,omitempty" yaml:"held_artifact_ids,omitempty"`
	Metadata        PlanetMetadata `json:"metadata" yaml:"metadata"`
}

// Artifact is an item that rests on a planet or travels with a voyage.
type Artifact struct {
	ID                 ArtifactID `json:"id" yaml:"id"`
	PlanetDiscoveredOn EntityID   `json:"planet_discovered_on" yaml:"planet_discovered_on"`
	Rarity             int        `json:"rarity" yaml:"rarity"`
	ArtifactType       int        `json:"artifact_type" yaml:"artifact_type"`
	Discoverer         Address    `json:"discoverer" yaml:"discoverer"`
	CurrentOwner       Address    `json:"current_owner" yaml:"current_owner"`
	MintedAt           int64      `json:"minted_at" yaml:"minted_at"`
	OnPlanet           EntityID   `json:"on_planet,omitempty" yaml:"on_planet,omitempty"`
	OnVoyage           VoyageID   `json:"on_voyage,omitempty" yaml:"on_voyage,omitempty"`
}

// Player is an account-level record.
type Player struct {
	Address             Address  `json:"address" yaml:"address"`
	HomePlanetID        EntityID `json:"home_planet_id" yaml:"home_planet_id"`
	InitTimestamp       int64    `json:"init_timestamp" yaml:"init_timestamp"`
	LastRevealTimestamp int64    `json:"last_reveal_timestamp" yaml:"last_reveal_timestamp"`
	Score               uint64   `json:"score" yaml:"score"`
	SpaceJunk           int64    `json:"space_junk" yaml:"space_junk"`
}

// Constants are the world-wide game parameters.
type Constants struct {
	WorldRadiusMin         int64   `json:"world_radius_min" yaml:"world_radius_min"`
	PlanetRarity           int64   `json:"planet_rarity" yaml:"planet_rarity"`
	TimeFactorHundredths   int64   `json:"time_factor_hundredths" yaml:"time_factor_hundredths"`
	PhotoidActivationDelay int64   `json:"photoid_activation_delay" yaml:"photoid_activation_delay"`
	LocationRevealCooldown int64   `json:"location_reveal_cooldown" yaml:"location_reveal_cooldown"`
	SpaceJunkEnabled       bool    `json:"space_junk_enabled" yaml:"space_junk_enabled"`
	PlanetLevelThresholds  []int64 `json:"planet_level_thresholds,omitempty" yaml:"planet_level_thresholds,omitempty"`
}
