package store

import "gorm.io/gorm"

type Store interface {
	Close() error
	Adapter() Adapter
	CredentialField() CredentialField
	Region() Region
	Plan() Plan
	Spec() Spec
	SyncRun() SyncRun
}

type DataStore struct {
	db              *gorm.DB
	adapter         Adapter
	credentialField CredentialField
	region          Region
	plan            Plan
	spec            Spec
	syncRun         SyncRun
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:              db,
		adapter:         NewAdapter(db),
		credentialField: NewCredentialField(db),
		region:          NewRegion(db),
		plan:            NewPlan(db),
		spec:            NewSpec(db),
		syncRun:         NewSyncRun(db),
	}
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *DataStore) Adapter() Adapter {
	return s.adapter
}

func (s *DataStore) CredentialField() CredentialField {
	return s.credentialField
}

func (s *DataStore) Region() Region {
	return s.region
}

func (s *DataStore) Plan() Plan {
	return s.plan
}

func (s *DataStore) Spec() Spec {
	return s.spec
}

func (s *DataStore) SyncRun() SyncRun {
	return s.syncRun
}
