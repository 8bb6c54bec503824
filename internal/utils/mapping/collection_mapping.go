package mapping

import (
	"github.com/avstream/media_access_app/internal/core/domain"
	"github.com/avstream/media_access_app/internal/models"
)

// ToModelCollection converts a domain Collection to a model Collection
func ToModelCollection(d domain.Collection) models.Collection {
	return models.Collection{
		CollectionID: d.CollectionID,
		Name:         d.Name,
		Managers:     d.Managers,
		Editors:      d.Editors,
		Depositors:   d.Depositors,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCollection converts a model Collection to a domain Collection
func ToDomainCollection(m models.Collection) domain.Collection {
	return domain.Collection{
		CollectionID: m.CollectionID,
		Name:         m.Name,
		Managers:     m.Managers,
		Editors:      m.Editors,
		Depositors:   m.Depositors,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}
