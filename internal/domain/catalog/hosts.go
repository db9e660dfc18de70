package catalog

import (
	geohash "github.com/TomiHiltunen/geohash-golang"
	"github.com/okian/olympicsnav/internal/domain/types"
)

// clusterPrecision is the geohash length used to group nearby hosts.
const clusterPrecision = 4

// Point is one host city on the map.
type Point struct {
	Latitude  float64      `json:"latitude"`
	Longitude float64      `json:"longitude"`
	Season    types.Season `json:"season"`
	City      string       `json:"city"`
	Country   string       `json:"country"`
	Edition   string       `json:"edition"`
	Geohash   string       `json:"geohash"`
	Cluster   string       `json:"cluster"`
}

// HostPoints derives the map points for the host table. A row with both or
// neither presence column populated fails the whole view.
func HostPoints(entries []types.HostEntry) ([]Point, error) {
	out := make([]Point, 0, len(entries))
	for i, e := range entries {
		season, err := e.Season(i)
		if err != nil {
			return nil, err
		}
		gh := geohash.Encode(e.Latitude, e.Longitude)
		cluster := gh
		if len(cluster) > clusterPrecision {
			cluster = cluster[:clusterPrecision]
		}
		out = append(out, Point{
			Latitude:  e.Latitude,
			Longitude: e.Longitude,
			Season:    season,
			City:      e.City,
			Country:   e.Country,
			Edition:   e.Edition(),
			Geohash:   gh,
			Cluster:   cluster,
		})
	}
	return out, nil
}
