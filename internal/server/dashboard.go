package server

import (
	"net/http"

	"subtrack/pkg/types"
)

// The dashboard serves fixed sample numbers; no reporting backend
// exists yet.
func (s *Service) handleDashboard(w http.ResponseWriter, r *http.Request) {
	s.respondData(w, http.StatusOK, dashboardData())
}

func dashboardData() types.DashboardData {
	months := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}

	return types.DashboardData{
		Stats: types.DashboardStats{
			Customers:  types.StatValue{Value: 1240, Change: 10.5},
			Revenue:    types.StatValue{Value: 56789, Change: 8.2},
			Orders:     types.StatValue{Value: 432, Change: -3.6},
			Conversion: types.StatValue{Value: 24, Change: 1.8},
		},
		RevenueData: types.LineChart{
			Labels: months,
			Datasets: []types.LineDataset{
				{
					Label:           "Revenue",
					Data:            []float64{12000, 19000, 15000, 21000, 18000, 24000},
					BackgroundColor: "rgba(99, 102, 241, 0.2)",
					BorderColor:     "rgba(99, 102, 241, 1)",
				},
			},
		},
		CustomersData: types.BarChart{
			Labels: months,
			Datasets: []types.BarDataset{
				{
					Label: "New Customers",
					Data:  []float64{120, 180, 150, 210, 160, 240},
					BackgroundColor: []string{
						"rgba(255, 99, 132, 0.2)",
						"rgba(54, 162, 235, 0.2)",
						"rgba(255, 206, 86, 0.2)",
						"rgba(75, 192, 192, 0.2)",
						"rgba(153, 102, 255, 0.2)",
						"rgba(255, 159, 64, 0.2)",
					},
					BorderColor: []string{
						"rgba(255, 99, 132, 1)",
						"rgba(54, 162, 235, 1)",
						"rgba(255, 206, 86, 1)",
						"rgba(75, 192, 192, 1)",
						"rgba(153, 102, 255, 1)",
						"rgba(255, 159, 64, 1)",
					},
					BorderWidth: 1,
				},
			},
		},
	}
}
