package models

// Customer carries the fields the quarterly interest run needs; the
// store filters out soft-deleted rows before they reach the orchestrator.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
