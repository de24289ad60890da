package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crewtrack/crewtrack/pkg/billing"
	"github.com/crewtrack/crewtrack/pkg/model"
)

// BillingRepository feeds the cost engine. Records are matched on check-in
// time falling within the range; sites with no records in range still come
// back and the engine drops them.
type BillingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) *BillingRepository {
	return &BillingRepository{db: db}
}

func (r *BillingRepository) SitesWithRecords(ctx context.Context, tenantID uuid.UUID, start, end time.Time, siteID, clientID *uuid.UUID) ([]billing.SiteInput, error) {
	siteQuery := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if siteID != nil {
		siteQuery = siteQuery.Where("id = ?", *siteID)
	}
	if clientID != nil {
		siteQuery = siteQuery.Where("client_id = ?", *clientID)
	}

	var sites []model.Site
	if err := siteQuery.Order("created_at").Find(&sites).Error; err != nil {
		return nil, err
	}
	if len(sites) == 0 {
		return nil, nil
	}

	siteIDs := make([]uuid.UUID, 0, len(sites))
	for _, site := range sites {
		siteIDs = append(siteIDs, site.ID)
	}

	var records []model.TimeRecord
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND site_id IN ? AND check_in_time >= ? AND check_in_time <= ?",
			tenantID, siteIDs, start, end).
		Order("check_in_time").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	bySite := make(map[uuid.UUID][]model.TimeRecord, len(sites))
	for _, record := range records {
		bySite[record.SiteID] = append(bySite[record.SiteID], record)
	}

	inputs := make([]billing.SiteInput, 0, len(sites))
	for _, site := range sites {
		inputs = append(inputs, billing.SiteInput{Site: site, Records: bySite[site.ID]})
	}
	return inputs, nil
}
