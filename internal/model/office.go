package model

// Office is an organizational unit schedules get assigned to.
type Office struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Code            string `json:"code,omitempty"`
	Location        string `json:"location,omitempty"`
	Department      *int64 `json:"department,omitempty"`
	DepartmentName  string `json:"department_name,omitempty"`
	DirectorateName string `json:"directorate_name,omitempty"`
}
