package store_test

import (
	"context"

	"github.com/dcm-project/hosting-adapter-manager/internal/store"
	"github.com/dcm-project/hosting-adapter-manager/internal/store/model"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ = Describe("CredentialField Store", func() {
	var (
		db         *gorm.DB
		fieldStore store.CredentialField
		adapterID  uuid.UUID
		ctx        context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Migrate(db)).To(Succeed())

		fieldStore = store.NewCredentialField(db)
		adapterID = uuid.New()
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	Describe("Upsert", func() {
		It("inserts a new field", func() {
			err := fieldStore.Upsert(ctx, model.CredentialField{
				AdapterID: adapterID, Key: "api_key", Label: "API Key",
			})
			Expect(err).NotTo(HaveOccurred())

			fields, err := fieldStore.ListByAdapter(ctx, adapterID)
			Expect(err).NotTo(HaveOccurred())
			Expect(fields).To(HaveLen(1))
			Expect(fields[0].Label).To(Equal("API Key"))
		})

		It("refreshes the label on a repeated key instead of duplicating", func() {
			Expect(fieldStore.Upsert(ctx, model.CredentialField{
				AdapterID: adapterID, Key: "api_key", Label: "API Key",
			})).To(Succeed())

			Expect(fieldStore.Upsert(ctx, model.CredentialField{
				AdapterID: adapterID, Key: "api_key", Label: "Personal Access Token",
			})).To(Succeed())

			fields, err := fieldStore.ListByAdapter(ctx, adapterID)
			Expect(err).NotTo(HaveOccurred())
			Expect(fields).To(HaveLen(1))
			Expect(fields[0].Label).To(Equal("Personal Access Token"))
		})

		It("keeps the same key on different adapters apart", func() {
			other := uuid.New()
			Expect(fieldStore.Upsert(ctx, model.CredentialField{AdapterID: adapterID, Key: "api_key"})).To(Succeed())
			Expect(fieldStore.Upsert(ctx, model.CredentialField{AdapterID: other, Key: "api_key"})).To(Succeed())

			mine, err := fieldStore.ListByAdapter(ctx, adapterID)
			Expect(err).NotTo(HaveOccurred())
			Expect(mine).To(HaveLen(1))

			theirs, err := fieldStore.ListByAdapter(ctx, other)
			Expect(err).NotTo(HaveOccurred())
			Expect(theirs).To(HaveLen(1))
		})
	})

	Describe("ListByAdapter", func() {
		It("orders fields by key", func() {
			Expect(fieldStore.Upsert(ctx, model.CredentialField{AdapterID: adapterID, Key: "secret"})).To(Succeed())
			Expect(fieldStore.Upsert(ctx, model.CredentialField{AdapterID: adapterID, Key: "api_key"})).To(Succeed())

			fields, err := fieldStore.ListByAdapter(ctx, adapterID)

			Expect(err).NotTo(HaveOccurred())
			Expect(fields).To(HaveLen(2))
			Expect(fields[0].Key).To(Equal("api_key"))
			Expect(fields[1].Key).To(Equal("secret"))
		})

		It("returns an empty list for an unknown adapter", func() {
			fields, err := fieldStore.ListByAdapter(ctx, uuid.New())

			Expect(err).NotTo(HaveOccurred())
			Expect(fields).To(BeEmpty())
		})
	})
})
