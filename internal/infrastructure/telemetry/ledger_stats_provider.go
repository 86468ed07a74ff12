package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormLedgerStatsProvider implements LedgerStatsProvider with one aggregate
// query over unpaid debts
type GormLedgerStatsProvider struct {
	db *gorm.DB
}

// NewGormLedgerStatsProvider creates a new GormLedgerStatsProvider.
func NewGormLedgerStatsProvider(db *gorm.DB) *GormLedgerStatsProvider {
	return &GormLedgerStatsProvider{db: db}
}

// CompanyLedgerStats returns the open position of every company with at
// least one unpaid debt
func (p *GormLedgerStatsProvider) CompanyLedgerStats(ctx context.Context, today time.Time) ([]CompanyLedgerStats, error) {
	type row struct {
		CompanyID    uuid.UUID       `gorm:"column:company_id"`
		Outstanding  decimal.Decimal `gorm:"column:outstanding"`
		OpenDebts    int64           `gorm:"column:open_debts"`
		OverdueDebts int64           `gorm:"column:overdue_debts"`
	}

	var rows []row
	err := p.db.WithContext(ctx).
		Table("debts").
		Select(`clients.company_id AS company_id,
			COALESCE(SUM(debts.remaining_amount), 0) AS outstanding,
			COUNT(*) AS open_debts,
			SUM(CASE WHEN debts.due_date < ? THEN 1 ELSE 0 END) AS overdue_debts`, today.Format("2006-01-02")).
		Joins("JOIN clients ON clients.id = debts.client_id").
		Where("debts.is_paid = ?", false).
		Group("clients.company_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	stats := make([]CompanyLedgerStats, len(rows))
	for i, r := range rows {
		stats[i] = CompanyLedgerStats(r)
	}
	return stats, nil
}
