package worldv1

import (
	"math"

	"github.com/yndnr/worldsync/internal/core/domain"
)

// ContractPrecision is the fixed-point scale of energy and silver amounts
// on the wire.
const ContractPrecision = 1000

func fromFixed(v int64) float64 { return float64(v) / ContractPrecision }

func toFixed(v float64) int64 { return int64(math.Round(v * ContractPrecision)) }

// ConstantsFromDomain converts domain constants to the wire form.
func ConstantsFromDomain(c domain.Constants) Constants {
	return Constants{
		WorldRadiusMin:         c.WorldRadiusMin,
		PlanetRarity:           c.PlanetRarity,
		TimeFactorHundredths:   c.TimeFactorHundredths,
		PhotoidActivationDelay: c.PhotoidActivationDelay,
		LocationRevealCooldown: c.LocationRevealCooldown,
		SpaceJunkEnabled:       c.SpaceJunkEnabled,
		PlanetLevelThresholds:  c.PlanetLevelThresholds,
	}
}

// ToDomain converts wire constants.
func (c Constants) ToDomain() domain.Constants {
	return domain.Constants{
		WorldRadiusMin:         c.WorldRadiusMin,
		PlanetRarity:           c.PlanetRarity,
		TimeFactorHundredths:   c.TimeFactorHundredths,
		PhotoidActivationDelay: c.PhotoidActivationDelay,
		LocationRevealCooldown: c.LocationRevealCooldown,
		SpaceJunkEnabled:       c.SpaceJunkEnabled,
		PlanetLevelThresholds:  c.PlanetLevelThresholds,
	}
}

// PlayerFromDomain converts a domain player.
func PlayerFromDomain(p domain.Player) Player {
	return Player{
		Address:             string(p.Address),
		HomePlanetID:        string(p.HomePlanetID),
		InitTimestamp:       p.InitTimestamp,
		LastRevealTimestamp: p.LastRevealTimestamp,
		Score:               p.Score,
		SpaceJunk:           p.SpaceJunk,
	}
}

// ToDomain converts a wire player.
func (p Player) ToDomain() domain.Player {
	return domain.Player{
		Address:             domain.Address(p.Address),
		HomePlanetID:        domain.EntityID(p.HomePlanetID),
		InitTimestamp:       p.InitTimestamp,
		LastRevealTimestamp: p.LastRevealTimestamp,
		Score:               p.Score,
		SpaceJunk:           p.SpaceJunk,
	}
}

// RevealedCoordsFromDomain converts a domain revealed location.
func RevealedCoordsFromDomain(rc domain.RevealedCoords) RevealedCoords {
	return RevealedCoords{
		Hash:     string(rc.Hash),
		X:        rc.Coords.X,
		Y:        rc.Coords.Y,
		Revealer: string(rc.Revealer),
	}
}

// ToDomain converts a wire revealed location.
func (rc RevealedCoords) ToDomain() domain.RevealedCoords {
	return domain.RevealedCoords{
		Hash:     domain.EntityID(rc.Hash),
		Coords:   domain.Coords{X: rc.X, Y: rc.Y},
		Revealer: domain.Address(rc.Revealer),
	}
}

// ArrivalFromDomain converts a domain arrival.
func ArrivalFromDomain(a domain.Arrival) Arrival {
	return Arrival{
		EventID:           string(a.EventID),
		Player:            string(a.Player),
		FromPlanet:        string(a.FromPlanet),
		ToPlanet:          string(a.ToPlanet),
		EnergyArriving:    toFixed(a.EnergyArriving),
		SilverMoved:       toFixed(a.SilverMoved),
		DepartureTime:     a.DepartureTime,
		ArrivalTime:       a.ArrivalTime,
		ArrivalType:       int(a.ArrivalType),
		CarriedArtifactID: string(a.ArtifactID),
	}
}

// ToDomain converts a wire arrival.
func (a Arrival) ToDomain() domain.Arrival {
	return domain.Arrival{
		EventID:        domain.VoyageID(a.EventID),
		Player:         domain.Address(a.Player),
		FromPlanet:     domain.EntityID(a.FromPlanet),
		ToPlanet:       domain.EntityID(a.ToPlanet),
		EnergyArriving: fromFixed(a.EnergyArriving),
		SilverMoved:    fromFixed(a.SilverMoved),
		DepartureTime:  a.DepartureTime,
		ArrivalTime:    a.ArrivalTime,
		ArrivalType:    domain.ArrivalType(a.ArrivalType),
		ArtifactID:     domain.ArtifactID(a.CarriedArtifactID),
	}
}

// PlanetFromDomain converts a domain planet; metadata travels separately.
func PlanetFromDomain(p domain.Planet) Planet {
	held := make([]string, len(p.HeldArtifactIDs))
	for i, id := range p.HeldArtifactIDs {
		held[i] = string(id)
	}
	return Planet{
		IsInitialized:   true,
		LocationID:      string(p.LocationID),
		Owner:           string(p.Owner),
		PlanetLevel:     p.PlanetLevel,
		PlanetType:      int(p.PlanetType),
		Energy:          toFixed(p.Energy),
		EnergyCap:       toFixed(p.EnergyCap),
		EnergyGrowth:    toFixed(p.EnergyGrowth),
		Silver:          toFixed(p.Silver),
		SilverCap:       toFixed(p.SilverCap),
		SilverGrowth:    toFixed(p.SilverGrowth),
		Range:           p.Range,
		Speed:           p.Speed,
		Defense:         p.Defense,
		IsHomePlanet:    p.IsHomePlanet,
		LastUpdated:     p.LastUpdated,
		HeldArtifactIDs: held,
	}
}

// ToDomain converts a wire planet and attaches its metadata.
func (p Planet) ToDomain(md PlanetMetadata) domain.Planet {
	var held []domain.ArtifactID
	if len(p.HeldArtifactIDs) > 0 {
		held = make([]domain.ArtifactID, len(p.HeldArtifactIDs))
		for i, id := range p.HeldArtifactIDs {
			held[i] = domain.ArtifactID(id)
		}
	}
	return domain.Planet{
		LocationID:      domain.EntityID(p.LocationID),
		Owner:           domain.Address(p.Owner),
		PlanetLevel:     p.PlanetLevel,
		PlanetType:      domain.PlanetType(p.PlanetType),
		Energy:          fromFixed(p.Energy),
		EnergyCap:       fromFixed(p.EnergyCap),
		EnergyGrowth:    fromFixed(p.EnergyGrowth),
		Silver:          fromFixed(p.Silver),
		SilverCap:       fromFixed(p.SilverCap),
		SilverGrowth:    fromFixed(p.SilverGrowth),
		Range:           p.Range,
		Speed:           p.Speed,
		Defense:         p.Defense,
		IsHomePlanet:    p.IsHomePlanet,
		LastUpdated:     p.LastUpdated,
		HeldArtifactIDs: held,
		Metadata:        md.ToDomain(),
	}
}

// PlanetMetadataFromDomain converts domain planet metadata.
func PlanetMetadataFromDomain(m domain.PlanetMetadata) PlanetMetadata {
	return PlanetMetadata{
		LocationID:              string(m.LocationID),
		HasTriedFindingArtifact: m.HasTriedFindingArtifact,
		ProspectedBlockNumber:   m.ProspectedBlockNumber,
		Destroyed:               m.Destroyed,
		SpaceJunk:               m.SpaceJunk,
	}
}

// ToDomain converts wire planet metadata.
func (m PlanetMetadata) ToDomain() domain.PlanetMetadata {
	return domain.PlanetMetadata{
		LocationID:              domain.EntityID(m.LocationID),
		HasTriedFindingArtifact: m.HasTriedFindingArtifact,
		ProspectedBlockNumber:   m.ProspectedBlockNumber,
		Destroyed:               m.Destroyed,
		SpaceJunk:               m.SpaceJunk,
	}
}

// ArtifactFromDomain converts a domain artifact.
func ArtifactFromDomain(a domain.Artifact) Artifact {
	return Artifact{
		ID:                 string(a.ID),
		PlanetDiscoveredOn: string(a.PlanetDiscoveredOn),
		Rarity:             a.Rarity,
		ArtifactType:       a.ArtifactType,
		Discoverer:         string(a.Discoverer),
		CurrentOwner:       string(a.CurrentOwner),
		MintedAt:           a.MintedAt,
		OnPlanet:           string(a.OnPlanet),
		OnVoyage:           string(a.OnVoyage),
	}
}

// ToDomain converts a wire artifact.
func (a Artifact) ToDomain() domain.Artifact {
	return domain.Artifact{
		ID:                 domain.ArtifactID(a.ID),
		PlanetDiscoveredOn: domain.EntityID(a.PlanetDiscoveredOn),
		Rarity:             a.Rarity,
		ArtifactType:       a.ArtifactType,
		Discoverer:         domain.Address(a.Discoverer),
		CurrentOwner:       domain.Address(a.CurrentOwner),
		MintedAt:           a.MintedAt,
		OnPlanet:           domain.EntityID(a.OnPlanet),
		OnVoyage:           domain.VoyageID(a.OnVoyage),
	}
}
