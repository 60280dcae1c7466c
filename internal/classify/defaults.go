package classify

import "github.com/theirongolddev/wipflags/internal/model"

func include(c model.Category, f Field, patterns ...string) Rule {
	return Rule{Category: c, Action: Include, Field: f, Any: patterns}
}

func exclude(c model.Category, f Field, patterns ...string) Rule {
	return Rule{Category: c, Action: Exclude, Field: f, Any: patterns}
}

// Default returns the rule set matching the standard budget sheet wording.
func Default() *RuleSet {
	return &RuleSet{Rules: []Rule{
		include(model.NumberOfKits, Description, "nre", "kit", "travel"),
		exclude(model.NumberOfKits, Description, "other nre"),
		exclude(model.NumberOfKits, QtyText),

		include(model.BeginningWIP, Description, "nre", "kit", "travel"),
		exclude(model.BeginningWIP, Description, "other nre"),
		exclude(model.BeginningWIP, Unit, "hour"),

		include(model.EngineeringLabor, Description, "engineering labor"),
		include(model.ManufacturingLabor, Description, "manufacturing labor"),
		include(model.MaterialReceipts, Description, "material"),
		include(model.OtherNRE, Description, "other nre", "travel"),

		include(model.Milestones, Description, "nre", "travel"),
		exclude(model.Milestones, Description, "other nre"),

		include(model.KitSales, Description, "kit"),
		exclude(model.KitSales, Unit, "hour"),

		include(model.Travel, Description, "travel"),
	}}
}
