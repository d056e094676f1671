package machine

import "coffeemachine/internal/models"

// Step is one phase of a brew sequence: the sub-state it enters, the
// progress percentage reported on completion, and the resource amounts
// committed exactly once when the step completes without cancellation.
type Step struct {
	Phase       models.BrewPhase
	Progress    int
	WaterUse    float64
	BeansUse    float64
	WasteAdd    float64
	Conditional bool // heating runs only when the temperature is not ready
}

// Recipe is the ordered step sequence producing one drink. Dispatch is a
// lookup over a closed set of variants.
type Recipe struct {
	Drink models.Drink
	Steps []Step
}

const (
	espressoWater  = 30.0
	americanoWater = 60.0
	hotWaterWater  = 15.0
	grindBeans     = 5.0
	grindWaste     = 5.0
)

func espressoSteps(water float64) []Step {
	return []Step{
		{Phase: models.PhaseWaitingCup, Progress: 5},
		{Phase: models.PhaseGrinding, Progress: 20, BeansUse: grindBeans, WasteAdd: grindWaste},
		{Phase: models.PhaseHeating, Progress: 40, Conditional: true},
		{Phase: models.PhaseBrewing, Progress: 70, WaterUse: water},
		{Phase: models.PhaseDone, Progress: 100},
	}
}

func milkSteps(water float64) []Step {
	base := espressoSteps(water)
	steps := make([]Step, 0, len(base)+1)
	steps = append(steps, base[:len(base)-1]...)
	steps = append(steps,
		Step{Phase: models.PhaseFrothing, Progress: 85},
		Step{Phase: models.PhaseDone, Progress: 100},
	)
	return steps
}

var recipes = map[models.Drink]Recipe{
	models.DrinkEspresso:   {Drink: models.DrinkEspresso, Steps: espressoSteps(espressoWater)},
	models.DrinkAmericano:  {Drink: models.DrinkAmericano, Steps: espressoSteps(americanoWater)},
	models.DrinkCappuccino: {Drink: models.DrinkCappuccino, Steps: milkSteps(espressoWater)},
	models.DrinkLatte:      {Drink: models.DrinkLatte, Steps: milkSteps(espressoWater)},
	models.DrinkHotWater: {Drink: models.DrinkHotWater, Steps: []Step{
		{Phase: models.PhaseWaitingCup, Progress: 5},
		{Phase: models.PhaseBrewing, Progress: 50, WaterUse: hotWaterWater},
		{Phase: models.PhaseDone, Progress: 100},
	}},
}

// RecipeFor returns the recipe for a drink, or false for an unknown or
// empty selection.
func RecipeFor(d models.Drink) (Recipe, bool) {
	r, ok := recipes[d]
	return r, ok
}
