package evitadb

import (
	"time"

	"github.com/google/uuid"

	"github.com/platformbuilds/evitalab-core/internal/errs"
	pb "github.com/platformbuilds/evitalab-core/internal/grpc/evitapb"
	"github.com/platformbuilds/evitalab-core/internal/models"
)

func (c converter) serverStatus(s *pb.GrpcEvitaServerStatusResponse) *models.ServerStatus {
	status := &models.ServerStatus{
		ServerName:        s.ServerName,
		Version:           s.Version,
		Uptime:            time.Duration(s.Uptime) * time.Second,
		InstanceID:        s.InstanceId,
		CatalogsCorrupted: s.CatalogsCorrupted,
		CatalogsOk:        s.CatalogsOk,
		ReadOnly:          models.NotSupported[bool](),
		HealthProblems:    make([]string, 0, len(s.HealthProblems)),
	}
	if s.StartedAt != nil {
		status.StartedAt = s.StartedAt.AsTime()
	}
	if c.features.readOnly {
		status.ReadOnly = models.Of(s.ReadOnly.GetValue())
	}
	for _, p := range s.HealthProblems {
		status.HealthProblems = append(status.HealthProblems, p.String())
	}
	return status
}

func (c converter) catalogStatistics(s *pb.GrpcCatalogStatistics) (*models.CatalogStatistics, error) {
	state, err := catalogState(s.CatalogState)
	if err != nil {
		return nil, errs.WithScope(err, errs.Scope{Catalog: s.CatalogName})
	}
	catalogID := models.NotSupported[uuid.UUID]()
	if c.features.catalogIDs && s.CatalogId != nil {
		id, err := uuid.Parse(s.CatalogId.GetValue())
		if err != nil {
			return nil, errs.UnexpectedWrap(errs.Scope{Catalog: s.CatalogName}, err, "invalid catalog id")
		}
		catalogID = models.Of(id)
	}
	out := &models.CatalogStatistics{
		CatalogID:         catalogID,
		Name:              s.CatalogName,
		Version:           s.CatalogVersion,
		State:             state,
		Corrupted:         s.Corrupted,
		TotalRecords:      s.TotalRecords,
		IndexCount:        s.IndexCount,
		SizeOnDiskInBytes: s.SizeOnDiskInBytes,
		EntityCollections: make([]models.EntityCollectionStatistics, 0, len(s.EntityCollectionStatistics)),
	}
	for _, e := range s.EntityCollectionStatistics {
		out.EntityCollections = append(out.EntityCollections, models.EntityCollectionStatistics{
			EntityType:        e.EntityType,
			TotalRecords:      e.TotalRecords,
			IndexCount:        e.IndexCount,
			SizeOnDiskInBytes: e.SizeOnDiskInBytes,
		})
	}
	return out, nil
}

func serverFile(f *pb.GrpcFile) (*models.ServerFile, error) {
	id, err := uuid.Parse(f.FileId)
	if err != nil {
		return nil, errs.UnexpectedWrap(errs.Scope{}, err, "invalid file id %q", f.FileId)
	}
	out := &models.ServerFile{
		FileID:           id,
		Name:             f.Name,
		Description:      optString(f.Description),
		ContentType:      f.ContentType,
		TotalSizeInBytes: f.TotalSizeInBytes,
		Origin:           f.Origin,
	}
	if f.Created != nil {
		out.Created = f.Created.AsTime()
	}
	return out, nil
}

func taskStatus(t *pb.GrpcTaskStatus) (*models.TaskStatus, error) {
	if t == nil {
		return nil, errs.Unexpected(errs.Scope{}, "server returned no task status")
	}
	id, err := uuid.Parse(t.TaskId)
	if err != nil {
		return nil, errs.UnexpectedWrap(errs.Scope{}, err, "invalid task id %q", t.TaskId)
	}
	state, err := taskState(t.SimplifiedState)
	if err != nil {
		return nil, err
	}
	traits := make(map[models.TaskTrait]bool, len(t.Trait))
	for _, tr := range t.Trait {
		trait, err := taskTrait(tr)
		if err != nil {
			return nil, err
		}
		traits[trait] = true
	}
	status := &models.TaskStatus{
		TaskID:      id,
		TaskTypes:   t.TaskType,
		TaskName:    t.TaskName,
		CatalogName: optString(t.CatalogName),
		Issued:      optTime(t.Issued),
		Started:     optTime(t.Started),
		Finished:    optTime(t.Finished),
		Progress:    t.Progress,
		Settings:    optString(t.Settings),
		Exception:   optString(t.Exception),
		State:       state,
		Traits:      traits,
	}
	if t.Created != nil {
		status.Created = t.Created.AsTime()
	}
	switch {
	case t.File != nil:
		file, err := serverFile(t.File)
		if err != nil {
			return nil, err
		}
		status.Result = &models.TaskResult{File: file}
	case t.Text != nil:
		status.Result = &models.TaskResult{Text: optString(t.Text)}
	}
	return status, nil
}
