package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "entrada:validate"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Validate Entrada"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Perfume catalog
	{Code: "perfume:view", Name: "View Perfume"},
	{Code: "perfume:create", Name: "Create Perfume"},
	{Code: "perfume:update", Name: "Update Perfume"},
	// Purchase orders
	{Code: "order:view", Name: "View Purchase Order"},
	{Code: "order:create", Name: "Create Purchase Order"},
	{Code: "order:cancel", Name: "Cancel Purchase Order"},
	// Entradas (goods receipts)
	{Code: "entrada:view", Name: "View Entrada"},
	{Code: "entrada:create", Name: "Register Entrada"},
	{Code: "entrada:validate", Name: "Validate Entrada"},
	{Code: "entrada:reject", Name: "Reject Entrada"},
	// Traspasos (inter-warehouse transfers)
	{Code: "traspaso:view", Name: "View Traspaso"},
	{Code: "traspaso:create", Name: "Create Traspaso"},
	// Reference catalogs
	{Code: "supplier:view", Name: "View Supplier"},
	{Code: "supplier:create", Name: "Create Supplier"},
	{Code: "warehouse:view", Name: "View Warehouse"},
	{Code: "warehouse:create", Name: "Create Warehouse"},
	// Dashboard & reports
	{Code: "dashboard:view", Name: "View Dashboard"},
	{Code: "report:export", Name: "Export Reports"},
}

// AuditorPrivileges is the subset granted to the AUDITOR role.
var AuditorPrivileges = []string{
	"perfume:view",
	"order:view",
	"entrada:view",
	"entrada:validate",
	"entrada:reject",
	"traspaso:view",
	"supplier:view",
	"warehouse:view",
	"dashboard:view",
	"report:export",
}
