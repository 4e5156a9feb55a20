package value

// The 24 Tunisian governorates recognized for agency addresses.
//
//nolint:gochecknoglobals
var governorates = map[string]struct{}{
	"Tunis": {}, "Ariana": {}, "Ben Arous": {}, "Manouba": {}, "Nabeul": {},
	"Zaghouan": {}, "Bizerte": {}, "Beja": {}, "Jendouba": {}, "Kef": {},
	"Siliana": {}, "Sousse": {}, "Monastir": {}, "Mahdia": {}, "Sfax": {},
	"Kairouan": {}, "Kasserine": {}, "Sidi Bouzid": {}, "Gabes": {},
	"Medenine": {}, "Tataouine": {}, "Gafsa": {}, "Tozeur": {}, "Kebili": {},
}

func IsGovernorate(name string) bool {
	_, ok := governorates[name]
	return ok
}
