// Package coach builds daily training plans from a runner's profile,
// training phase, synced load history and morning readiness check-in.
package coach

import (
	"math"

	"github.com/nadavyigal/Running-coach--sub004/errors"
)

// Zone is a heart rate training zone.
type Zone string

const (
	Z1 Zone = "Z1"
	Z2 Zone = "Z2"
	Z3 Zone = "Z3"
	Z4 Zone = "Z4"
	Z5 Zone = "Z5"
)

// HRRange is an inclusive heart rate band in bpm.
type HRRange struct {
	Low  int
	High int
}

// defaultRestingHR is assumed when the profile has no resting HR.
const defaultRestingHR = 60

// karvonen holds the heart rate reserve fractions bounding each zone.
var karvonen = map[Zone][2]float64{
	Z1: {0.55, 0.72},
	Z2: {0.72, 0.82},
	Z3: {0.82, 0.89},
	Z4: {0.89, 0.95},
	Z5: {0.95, 1.00},
}

// HeartRateZones derives the five training zones from max and resting
// heart rate using the Karvonen (heart rate reserve) method.
func HeartRateZones(maxHR, restingHR int) (map[Zone]HRRange, error) {
	if maxHR <= 0 {
		return nil, errors.New("max heart rate is required to derive zones")
	}
	if restingHR <= 0 {
		restingHR = defaultRestingHR
	}
	reserve := maxHR - restingHR
	if reserve < 1 {
		reserve = 1
	}

	zones := make(map[Zone]HRRange, len(karvonen))
	for zone, bounds := range karvonen {
		zones[zone] = HRRange{
			Low:  restingHR + int(math.Round(float64(reserve)*bounds[0])),
			High: restingHR + int(math.Round(float64(reserve)*bounds[1])),
		}
	}
	return zones, nil
}

// ZoneRPE maps each zone to its rating of perceived exertion guidance.
func ZoneRPE() map[Zone]string {
	return map[Zone]string{
		Z1: "RPE 2-3",
		Z2: "RPE 3-4",
		Z3: "RPE 5-6",
		Z4: "RPE 7-8",
		Z5: "RPE 9+",
	}
}
