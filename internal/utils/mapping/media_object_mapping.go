package mapping

import (
	"github.com/avstream/media_access_app/internal/core/domain"
	"github.com/avstream/media_access_app/internal/models"
)

// ToModelMediaObject converts a domain MediaObject to a model MediaObject
func ToModelMediaObject(d domain.MediaObject) models.MediaObject {
	return models.MediaObject{
		MediaObjectID: d.MediaObjectID,
		CollectionID:  d.CollectionID,
		Title:         d.Title,
		Published:     d.Published,
		ReadGroups:    d.ReadGroups,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMediaObject converts a model MediaObject to a domain MediaObject
func ToDomainMediaObject(m models.MediaObject) domain.MediaObject {
	return domain.MediaObject{
		MediaObjectID: m.MediaObjectID,
		CollectionID:  m.CollectionID,
		Title:         m.Title,
		Published:     m.Published,
		ReadGroups:    m.ReadGroups,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelMasterFile converts a domain MasterFile to a model MasterFile
func ToModelMasterFile(d domain.MasterFile) models.MasterFile {
	return models.MasterFile{
		MasterFileID:  d.MasterFileID,
		MediaObjectID: d.MediaObjectID,
		Label:         d.Label,
	}
}

// ToDomainMasterFile converts a model MasterFile to a domain MasterFile
func ToDomainMasterFile(m models.MasterFile) domain.MasterFile {
	return domain.MasterFile{
		MasterFileID:  m.MasterFileID,
		MediaObjectID: m.MediaObjectID,
		Label:         m.Label,
	}
}
