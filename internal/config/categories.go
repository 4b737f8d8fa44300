package config

// Categories group commands in the help listing.
const (
	CategoryInformation = "🕯️ Information"
	CategoryGameplay    = "🎲 Gameplay"
	CategoryMaintenance = "🛠️ Maintenance"
)

var CategoryWeights = map[string]int{
	CategoryInformation: 0,
	CategoryGameplay:    20,
	CategoryMaintenance: 60,
}

// CategoryWeight orders categories; unknown ones sort last.
func CategoryWeight(category string) int {
	if w, ok := CategoryWeights[category]; ok {
		return w
	}
	return 1000
}
