package types

type StatValue struct {
	Value  float64 `json:"value"`
	Change float64 `json:"change"`
}

type DashboardStats struct {
	Customers  StatValue `json:"customers"`
	Revenue    StatValue `json:"revenue"`
	Orders     StatValue `json:"orders"`
	Conversion StatValue `json:"conversion"`
}

type LineDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor string    `json:"backgroundColor"`
	BorderColor     string    `json:"borderColor"`
}

type BarDataset struct {
	Label           string    `json:"label"`
	Data            []float64 `json:"data"`
	BackgroundColor []string  `json:"backgroundColor"`
	BorderColor     []string  `json:"borderColor"`
	BorderWidth     int       `json:"borderWidth"`
}

type LineChart struct {
	Labels   []string      `json:"labels"`
	Datasets []LineDataset `json:"datasets"`
}

type BarChart struct {
	Labels   []string     `json:"labels"`
	Datasets []BarDataset `json:"datasets"`
}

type DashboardData struct {
	Stats         DashboardStats `json:"stats"`
	RevenueData   LineChart      `json:"revenueData"`
	CustomersData BarChart       `json:"customersData"`
}
