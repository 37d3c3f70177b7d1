package domain

// Capability categories.
const (
	CategoryVehicles       = "vehicles"
	CategoryDrivers        = "drivers"
	CategoryFinance        = "finance"
	CategoryReports        = "reports"
	CategoryTracking       = "tracking"
	CategoryAdministration = "administration"
	CategoryRoles          = "roles"
)

// Capability keys governing this engine's own management surface.
const (
	CapabilityCustomRoleCreate = "role.custom.create"
	CapabilityCustomRoleView   = "role.custom.view"
	CapabilityCustomRoleEdit   = "role.custom.edit"
	CapabilityCustomRoleDelete = "role.custom.delete"
	CapabilityCatalogView      = "role.capability.view"
)

// builtinCapabilities is the build-time capability catalog. It is loaded once
// and never mutated at runtime; Seed writes it into the store, where the
// persisted rows are authoritative at request time. Changing this table
// requires a redeploy plus a reseed.
var builtinCapabilities = []Capability{
	// Vehicles
	{
		Key:           "vehicle.view",
		Category:      CategoryVehicles,
		Name:          "View vehicles",
		Description:   "View vehicle records and their status",
		AllowedLevels: []AccessLevel{AccessLevelView, AccessLevelFull},
	},
	{
		Key:           "vehicle.create",
		Category:      CategoryVehicles,
		Name:          "Create vehicles",
		Description:   "Register new vehicles in the fleet",
		AllowedLevels: []AccessLevel{AccessLevelLimited, AccessLevelFull},
	},
	{
		Key:           "vehicle.edit",
		Category:      CategoryVehicles,
		Name:          "Edit vehicles",
		Description:   "Update vehicle details, assignments, and maintenance records",
		AllowedLevels: []AccessLevel{AccessLevelView, AccessLevelLimited, AccessLevelFull},
	},
	{
		Key:              "vehicle.delete",
		Category:         CategoryVehicles,
		Name:             "Delete vehicles",
		Description:      "Remove vehicles from the fleet",
		AllowedLevels:    []AccessLevel{AccessLevelFull},
		IsSystemCritical: true,
	},

	// Drivers
	{
		Key:           "driver.view",
		Category:      CategoryDrivers,
		Name:          "View drivers",
		Description:   "View driver profiles and license information",
		AllowedLevels: []AccessLevel{AccessLevelView, AccessLevelFull},
	},
	{
		Key:           "driver.manage",
		Category:      CategoryDrivers,
		Name:          "Manage drivers",
		Description:   "Create, update, and deactivate driver profiles",
		AllowedLevels: []AccessLevel{AccessLevelLimited, AccessLevelFull},
	},
	{
		Key:           "driver.assign",
		Category:      CategoryDrivers,
		Name:          "Assign drivers",
		Description:   "Assign drivers to vehicles and routes",
		AllowedLevels: []AccessLevel{AccessLevelView, AccessLevelLimited, AccessLevelFull},
	},

	// Finance
	{
		Key:           "expense.view",
		Category:      CategoryFinance,
		Name:          "View expenses",
		Description:   "View fleet expense records",
		AllowedLevels: []AccessLevel{AccessLevelView, AccessLevelFull},
	},
	{
		Key:           "expense.manage",
		Category:      CategoryFinance,
		Name:          "Manage expenses",
		Description:   "Record and categorize fleet expenses",
		AllowedLevels: []AccessLevel{AccessLevelLimited, AccessLevelFull},
	},
	{
		Key:           "invoice.view",
		Category:      CategoryFinance,
		Name:          "View invoices",
		Description:   "View customer invoices",
		AllowedLevels: []AccessLevel{AccessLevelView, AccessLevelFull},
	},
	{
		Key:           "invoice.manage",
		Category:      CategoryFinance,
		Name:          "Manage invoices",
		Description:   "Create, send, and void customer invoices",
		AllowedLevels: []AccessLevel{AccessLevelLimited, AccessLevelFull},
	},
	{
		Key:              "payment.manage",
		Category:         CategoryFinance,
		Name:             "Manage payments",
		Description:      "Record and reconcile payments against invoices",
		AllowedLevels:    []AccessLevel{AccessLevelLimited, AccessLevelFull},
		IsSystemCritical: true,
	},

	// Reports
	{
		Key:           "report.operational.view",
		Category:      CategoryReports,
		Name:          "View operational reports",
		Description:   "View fleet utilization and maintenance reports",
		AllowedLevels: []AccessLevel{AccessLevelView, AccessLevelFull},
	},
	{
		Key:           "report.financial.view",
		Category:      CategoryReports,
		Name:          "View financial reports",
		Description:   "View revenue, expense, and profitability reports",
		AllowedLevels: []AccessLevel{AccessLevelView, AccessLevelLimited, AccessLevelFull},
	},
	{
		Key:           "report.export",
		Category:      CategoryReports,
		Name:          "Export reports",
		Description:   "Export report data to external formats",
		AllowedLevels: []AccessLevel{AccessLevelLimited, AccessLevelFull},
	},

	// Tracking
	{
		Key:           "tracking.view",
		Category:      CategoryTracking,
		Name:          "View tracking",
		Description:   "View live vehicle positions and trip history",
		AllowedLevels: []AccessLevel{AccessLevelView, AccessLevelLimited, AccessLevelFull},
	},
	{
		Key:           "tracking.geofence.manage",
		Category:      CategoryTracking,
		Name:          "Manage geofences",
		Description:   "Create and update geofence boundaries and alerts",
		AllowedLevels: []AccessLevel{AccessLevelLimited, AccessLevelFull},
	},

	// Administration
	{
		Key:              "organization.settings",
		Category:         CategoryAdministration,
		Name:             "Organization settings",
		Description:      "Manage organization-wide configuration",
		AllowedLevels:    []AccessLevel{AccessLevelView, AccessLevelFull},
		IsSystemCritical: true,
	},
	{
		Key:              "user.manage",
		Category:         CategoryAdministration,
		Name:             "Manage users",
		Description:      "Invite, deactivate, and manage organization members",
		AllowedLevels:    []AccessLevel{AccessLevelView, AccessLevelLimited, AccessLevelFull},
		IsSystemCritical: true,
	},

	// Roles (this engine's own management surface)
	{
		Key:              CapabilityCustomRoleCreate,
		Category:         CategoryRoles,
		Name:             "Create custom roles",
		Description:      "Create custom roles from scratch or from templates",
		AllowedLevels:    []AccessLevel{AccessLevelFull},
		IsSystemCritical: true,
	},
	{
		Key:           CapabilityCustomRoleView,
		Category:      CategoryRoles,
		Name:          "View custom roles",
		Description:   "View custom roles, their grants, and impact analysis",
		AllowedLevels: []AccessLevel{AccessLevelView, AccessLevelFull},
	},
	{
		Key:              CapabilityCustomRoleEdit,
		Category:         CategoryRoles,
		Name:             "Edit custom roles",
		Description:      "Update custom role details and capability grants",
		AllowedLevels:    []AccessLevel{AccessLevelLimited, AccessLevelFull},
		IsSystemCritical: true,
	},
	{
		Key:              CapabilityCustomRoleDelete,
		Category:         CategoryRoles,
		Name:             "Delete custom roles",
		Description:      "Delete unused custom roles",
		AllowedLevels:    []AccessLevel{AccessLevelFull},
		IsSystemCritical: true,
	},
	{
		Key:           CapabilityCatalogView,
		Category:      CategoryRoles,
		Name:          "View capability catalog",
		Description:   "Browse and search the capability catalog",
		AllowedLevels: []AccessLevel{AccessLevelView, AccessLevelFull},
	},
}

// BuiltinCapabilities returns a copy of the build-time capability catalog.
func BuiltinCapabilities() []Capability {
	capabilities := make([]Capability, len(builtinCapabilities))
	copy(capabilities, builtinCapabilities)
	for i := range capabilities {
		levels := make([]AccessLevel, len(capabilities[i].AllowedLevels))
		copy(levels, capabilities[i].AllowedLevels)
		capabilities[i].AllowedLevels = levels
	}
	return capabilities
}
