package domain

// Category is a user-defined spending category for local outflows.
type Category struct {
	Name  string `json:"name"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Settings is the single settings record for a ledger: the base currency all
// aggregate figures are normalized to, and the category palette. The engine
// consumes it read-only; the base currency is a parameter, not engine state.
type Settings struct {
	BaseCurrency string     `json:"baseCurrency"`
	Categories   []Category `json:"categories"`
	AuditFields
}

// DefaultSettings is the record a fresh ledger starts with. The base currency
// is unset until the first account is created, which adopts that account's
// currency.
func DefaultSettings() Settings {
	return Settings{
		BaseCurrency: "",
		Categories:   DefaultCategories,
	}
}

// DefaultCategories is the palette seeded for a new ledger.
var DefaultCategories = []Category{
	{Name: "Food", Color: "#3B82F6", Icon: "FoodIcon"},
	{Name: "Transport", Color: "#10B981", Icon: "TransportIcon"},
	{Name: "Shopping", Color: "#EF4444", Icon: "ShoppingIcon"},
	{Name: "Bills", Color: "#F59E0B", Icon: "BillsIcon"},
	{Name: "Rent", Color: "#F97316", Icon: "RentIcon"},
	{Name: "Subscriptions", Color: "#6D28D9", Icon: "SubscriptionIcon"},
	{Name: "Utilities", Color: "#0EA5E9", Icon: "UtilitiesIcon"},
	{Name: "Entertainment", Color: "#8B5CF6", Icon: "EntertainmentIcon"},
	{Name: "Health", Color: "#EC4899", Icon: "HealthIcon"},
	{Name: "Personal Care", Color: "#D946EF", Icon: "PersonalCareIcon"},
	{Name: "Groceries", Color: "#6366F1", Icon: "GroceriesIcon"},
	{Name: "Travel", Color: "#2563EB", Icon: "TravelIcon"},
	{Name: "Education", Color: "#16A34A", Icon: "EducationIcon"},
	{Name: "Other", Color: "#14B8A6", Icon: "OtherIcon"},
}
