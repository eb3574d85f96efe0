package users

type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleAnalyst Role = "ANALYST"
)

// Section is one area of the dashboard guarded by RBAC.
type Section string

const (
	SectionOverview  Section = "overview"
	SectionOracle    Section = "oracle"
	SectionInventory Section = "inventory"
	SectionOrders    Section = "orders"
	SectionClients   Section = "clients"
	SectionRevenue   Section = "revenue"
	SectionAudit     Section = "audit"
	SectionSettings  Section = "settings"
	SectionUsers     Section = "users"
)

// Sections in sidebar order.
var Sections = []Section{
	SectionOverview, SectionOracle, SectionInventory, SectionOrders, SectionClients,
	SectionRevenue, SectionAudit, SectionSettings, SectionUsers,
}

var roleDefaults = map[Section][]Role{
	SectionOverview:  {RoleAdmin},
	SectionOracle:    {RoleAdmin, RoleAnalyst},
	SectionInventory: {RoleAdmin, RoleManager},
	SectionOrders:    {RoleAdmin, RoleManager, RoleAnalyst},
	SectionClients:   {RoleAdmin, RoleManager, RoleAnalyst},
	SectionRevenue:   {RoleAdmin, RoleAnalyst},
	SectionAudit:     {RoleAdmin},
	SectionSettings:  {RoleAdmin, RoleAnalyst},
	SectionUsers:     {RoleAdmin},
}

func ValidSection(s string) bool {
	_, ok := roleDefaults[Section(s)]
	return ok
}

// Allowed grants a section when the role has it by default or the user
// was given it explicitly. ADMIN sees everything.
func Allowed(role Role, permissions []string, s Section) bool {
	if role == RoleAdmin {
		return true
	}
	for _, r := range roleDefaults[s] {
		if r == role {
			return true
		}
	}
	for _, p := range permissions {
		if Section(p) == s {
			return true
		}
	}
	return false
}

// Visible lists the sections a user may open, in sidebar order.
func Visible(role Role, permissions []string) []Section {
	out := make([]Section, 0, len(Sections))
	for _, s := range Sections {
		if Allowed(role, permissions, s) {
			out = append(out, s)
		}
	}
	return out
}
