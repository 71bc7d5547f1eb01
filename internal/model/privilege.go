package model

// Privilege represents a permission that can be assigned to users
type Privilege struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"` // e.g., "product:create"
	Name string `gorm:"type:varchar(100)" json:"name"`                     // e.g., "Create Product"
}

// Default privileges for the system
var DefaultPrivileges = []Privilege{
	// User management
	{Code: "user:view", Name: "View User"},
	{Code: "user:create", Name: "Create User"},
	{Code: "user:update", Name: "Update User"},
	{Code: "user:delete", Name: "Delete User"},
	{Code: "user:update_privilege", Name: "Update User Privileges"},
	// Catalog
	{Code: "product:view", Name: "View Product"},
	{Code: "product:create", Name: "Create Product"},
	{Code: "product:update", Name: "Update Product"},
	{Code: "product:delete", Name: "Delete Product"},
	{Code: "product:adjust", Name: "Adjust Product Stock"},
	{Code: "category:manage", Name: "Manage Categories"},
	{Code: "client:manage", Name: "Manage Clients"},
	{Code: "supplier:manage", Name: "Manage Suppliers"},
	// Sales
	{Code: "sale:view", Name: "View Sale"},
	{Code: "sale:create", Name: "Create Sale"},
	{Code: "sale:cancel", Name: "Cancel Sale"},
	// Purchasing
	{Code: "purchase:view", Name: "View Purchase Order"},
	{Code: "purchase:create", Name: "Create Purchase Order"},
	{Code: "purchase:receive", Name: "Receive Purchase Order"},
	{Code: "purchase:cancel", Name: "Cancel Purchase Order"},
	// Cash drawer
	{Code: "cashbox:view", Name: "View Cashbox"},
	{Code: "cashbox:manage", Name: "Record Payments and Expenses"},
	{Code: "cashbox:reconcile", Name: "Reconcile Cash Balance"},
	// Reporting
	{Code: "report:export", Name: "Export Reports"},
	{Code: "dashboard:view", Name: "View Dashboard"},
	// System
	{Code: "settings:manage", Name: "Manage System Settings"},
}
