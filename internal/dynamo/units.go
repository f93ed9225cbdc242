package dynamo

// Units converts between SI and the internal unit system and carries
// the gravitational constant expressed in internal units.
type Units struct {
	Length float64 // metres per length unit
	Time   float64 // seconds per time unit
	Mass   float64 // kilograms per mass unit
	G      float64 // length^3 mass^-1 time^-2
}

// SolarUnits measures length in au, time in days and mass in earth masses.
func SolarUnits() Units {
	return Units{
		Length: 149.60e9,
		Time:   86400.,
		Mass:   5.9736e24,
		G:      8.8897235e-10,
	}
}

func (u Units) LengthFromSI(m float64) float64 { return m / u.Length }
func (u Units) SpeedFromSI(ms float64) float64 { return ms / (u.Length / u.Time) }
func (u Units) MassFromSI(kg float64) float64 { return kg / u.Mass }
func (u Units) TimeFromSI(s float64) float64 { return s / u.Time }
