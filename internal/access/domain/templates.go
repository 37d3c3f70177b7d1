package domain

// builtinTemplates is the build-time template registry: immutable named
// capability bundles used as building blocks for custom roles. Loaded once,
// never mutated at runtime. Seeding writes these into the store alongside
// templates promoted from custom roles.
var builtinTemplates = []Template{
	{
		TemplateKey: "fleet_viewer",
		Name:        "Fleet Viewer",
		Description: "Read-only visibility into vehicles, drivers, and tracking",
		Capabilities: map[string]AccessLevel{
			"vehicle.view":  AccessLevelView,
			"driver.view":   AccessLevelView,
			"tracking.view": AccessLevelView,
		},
		IsBuiltin: true,
	},
	{
		TemplateKey: "vehicle_manager",
		Name:        "Vehicle Manager",
		Description: "Full control over the vehicle fleet",
		Capabilities: map[string]AccessLevel{
			"vehicle.view":   AccessLevelFull,
			"vehicle.create": AccessLevelFull,
			"vehicle.edit":   AccessLevelFull,
			"vehicle.delete": AccessLevelFull,
			"driver.view":    AccessLevelView,
			"driver.assign":  AccessLevelLimited,
		},
		IsBuiltin: true,
	},
	{
		TemplateKey: "dispatcher",
		Name:        "Dispatcher",
		Description: "Day-to-day dispatch: assignments and live tracking",
		Capabilities: map[string]AccessLevel{
			"vehicle.view":             AccessLevelView,
			"driver.view":              AccessLevelView,
			"driver.assign":            AccessLevelFull,
			"tracking.view":            AccessLevelFull,
			"tracking.geofence.manage": AccessLevelLimited,
		},
		IsBuiltin: true,
	},
	{
		TemplateKey: "finance_clerk",
		Name:        "Finance Clerk",
		Description: "Expense and invoice handling without payment authority",
		Capabilities: map[string]AccessLevel{
			"expense.view":          AccessLevelFull,
			"expense.manage":        AccessLevelFull,
			"invoice.view":          AccessLevelFull,
			"invoice.manage":        AccessLevelLimited,
			"report.financial.view": AccessLevelView,
		},
		IsBuiltin: true,
	},
	{
		TemplateKey: "finance_manager",
		Name:        "Finance Manager",
		Description: "Full financial control including payments and exports",
		Capabilities: map[string]AccessLevel{
			"expense.view":          AccessLevelFull,
			"expense.manage":        AccessLevelFull,
			"invoice.view":          AccessLevelFull,
			"invoice.manage":        AccessLevelFull,
			"payment.manage":        AccessLevelFull,
			"report.financial.view": AccessLevelFull,
			"report.export":         AccessLevelFull,
		},
		IsBuiltin: true,
	},
	{
		TemplateKey: "operations_manager",
		Name:        "Operations Manager",
		Description: "Fleet operations oversight with reporting",
		Capabilities: map[string]AccessLevel{
			"vehicle.view":            AccessLevelFull,
			"vehicle.edit":            AccessLevelLimited,
			"driver.view":             AccessLevelFull,
			"driver.manage":           AccessLevelLimited,
			"driver.assign":           AccessLevelFull,
			"tracking.view":           AccessLevelFull,
			"report.operational.view": AccessLevelFull,
			"report.export":           AccessLevelLimited,
		},
		IsBuiltin: true,
	},
}

// BuiltinTemplates returns a copy of the build-time template registry.
func BuiltinTemplates() []Template {
	templates := make([]Template, len(builtinTemplates))
	copy(templates, builtinTemplates)
	for i := range templates {
		capabilities := make(map[string]AccessLevel, len(templates[i].Capabilities))
		for key, level := range templates[i].Capabilities {
			capabilities[key] = level
		}
		templates[i].Capabilities = capabilities
	}
	return templates
}
