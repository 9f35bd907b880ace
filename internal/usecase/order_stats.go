package usecase

import (
	"context"
	"net/http"
	"sort"
	"time"

	"app/internal/domain/model"
)

type SellerDashboardStats struct {
	TodayRevenue     int64    `json:"today_revenue"`
	YesterdayRevenue int64    `json:"yesterday_revenue"`
	PendingOrders    int      `json:"pending_orders"`
	TotalOrdersMonth int      `json:"total_orders_month"`
	AverageRating    float64  `json:"average_rating"`
	ChartLabels      []string `json:"chart_labels"`
	ChartData        []int64  `json:"chart_data"`
}

type TopProductStat struct {
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int64  `json:"quantity"`
	Revenue     int64  `json:"revenue"`
}

type SellerAnalytics struct {
	CompletedCount  int              `json:"completed_count"`
	CancelledCount  int              `json:"cancelled_count"`
	ShippingCount   int              `json:"shipping_count"`
	ProcessingCount int              `json:"processing_count"`
	MonthlyLabels   []string         `json:"monthly_labels"`
	MonthlyRevenue  []int64          `json:"monthly_revenue"`
	TopProducts     []TopProductStat `json:"top_products"`
}

// 売上に数える注文か。キャンセル・返金済みは除外
func countsTowardRevenue(o model.Order) bool {
	return o.Status != model.OrderStatusCancelled && o.Status != model.OrderStatusRefunded
}

// GetSellerDashboardStats は出品者ダッシュボードの集計。
// 注文データはメモリ上で集計する。規模が大きくなったらSQL側に寄せる。
func (u *OrderUsecase) GetSellerDashboardStats(ctx context.Context, sellerID int64) (SellerDashboardStats, error) {
	if sellerID <= 0 {
		return SellerDashboardStats{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := u.orders.ListAllBySellerID(ctx, sellerID)
	if err != nil {
		return SellerDashboardStats{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	yesterday := today.AddDate(0, 0, -1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	stats := SellerDashboardStats{AverageRating: 5.0}

	//直近7日（今日を含む）の日別売上
	labels := make([]string, 7)
	data := make([]int64, 7)
	weekStart := today.AddDate(0, 0, -6)
	for i := 0; i < 7; i++ {
		labels[i] = weekStart.AddDate(0, 0, i).Format("02/01")
	}

	for _, o := range orders {
		if !countsTowardRevenue(o) {
			if o.OrderDate.After(monthStart) || o.OrderDate.Equal(monthStart) {
				stats.TotalOrdersMonth++
			}
			continue
		}

		d := o.OrderDate
		if !d.Before(today) {
			stats.TodayRevenue += o.FinalAmount
		} else if !d.Before(yesterday) {
			stats.YesterdayRevenue += o.FinalAmount
		}

		if !d.Before(monthStart) {
			stats.TotalOrdersMonth++
		}

		switch o.Status {
		case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusProcessing:
			stats.PendingOrders++
		}

		if !d.Before(weekStart) {
			idx := int(time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()).Sub(weekStart).Hours() / 24)
			if idx >= 0 && idx < 7 {
				data[idx] += o.FinalAmount
			}
		}
	}

	stats.ChartLabels = labels
	stats.ChartData = data
	return stats, nil
}

// GetSellerAnalytics は売上分析ページ用の集計。
func (u *OrderUsecase) GetSellerAnalytics(ctx context.Context, sellerID int64) (SellerAnalytics, error) {
	if sellerID <= 0 {
		return SellerAnalytics{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := u.orders.ListAllBySellerID(ctx, sellerID)
	if err != nil {
		return SellerAnalytics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	now := time.Now()
	analytics := SellerAnalytics{}

	//直近6ヶ月（当月を含む）の月別売上
	labels := make([]string, 6)
	revenue := make([]int64, 6)
	monthIndex := make(map[string]int, 6)
	for i := 0; i < 6; i++ {
		m := now.AddDate(0, i-5, 0)
		key := m.Format("01/2006")
		labels[i] = key
		monthIndex[key] = i
	}

	topByProduct := make(map[int64]*TopProductStat)

	for _, o := range orders {
		switch o.Status {
		case model.OrderStatusCompleted, model.OrderStatusDelivered:
			analytics.CompletedCount++
		case model.OrderStatusCancelled, model.OrderStatusRefunded:
			analytics.CancelledCount++
		case model.OrderStatusShipping:
			analytics.ShippingCount++
		case model.OrderStatusPending, model.OrderStatusConfirmed, model.OrderStatusProcessing:
			analytics.ProcessingCount++
		}

		if !countsTowardRevenue(o) {
			continue
		}

		if i, ok := monthIndex[o.OrderDate.Format("01/2006")]; ok {
			revenue[i] += o.FinalAmount
		}

		items, err := u.orderItems.ListByOrderID(ctx, o.ID)
		if err != nil {
			return SellerAnalytics{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		for _, it := range items {
			s, ok := topByProduct[it.ProductID]
			if !ok {
				s = &TopProductStat{ProductID: it.ProductID, ProductName: it.ProductName}
				topByProduct[it.ProductID] = s
			}
			s.Quantity += it.Quantity
			s.Revenue += it.Subtotal
		}
	}

	tops := make([]TopProductStat, 0, len(topByProduct))
	for _, s := range topByProduct {
		tops = append(tops, *s)
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Quantity != tops[j].Quantity {
			return tops[i].Quantity > tops[j].Quantity
		}
		return tops[i].ProductID < tops[j].ProductID
	})
	if len(tops) > 5 {
		tops = tops[:5]
	}

	analytics.MonthlyLabels = labels
	analytics.MonthlyRevenue = revenue
	analytics.TopProducts = tops
	return analytics, nil
}
