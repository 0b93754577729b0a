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

var _ = Describe("Region Store", func() {
	var (
		db          *gorm.DB
		regionStore store.Region
		adapterID   uuid.UUID
		ctx         context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Migrate(db)).To(Succeed())

		regionStore = store.NewRegion(db)
		adapterID = uuid.New()
		ctx = context.Background()
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	Describe("Upsert", func() {
		It("creates a region for a new natural key", func() {
			region, err := regionStore.Upsert(ctx, model.Region{
				AdapterID: adapterID,
				Code:      "us-east",
				Name:      "Newark, NJ",
				Active:    true,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(region.ID).NotTo(BeZero())
			Expect(region.Name).To(Equal("Newark, NJ"))
			Expect(region.Active).To(BeTrue())
		})

		It("refreshes name and active on an existing natural key", func() {
			first, err := regionStore.Upsert(ctx, model.Region{
				AdapterID: adapterID, Code: "us-east", Name: "Newark", Active: true,
			})
			Expect(err).NotTo(HaveOccurred())

			second, err := regionStore.Upsert(ctx, model.Region{
				AdapterID: adapterID, Code: "us-east", Name: "Newark, NJ", Active: true,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(second.ID).To(Equal(first.ID))
			Expect(second.Name).To(Equal("Newark, NJ"))
		})

		It("keeps the row ID stable when reactivating", func() {
			created, _ := regionStore.Upsert(ctx, model.Region{
				AdapterID: adapterID, Code: "eu-west", Name: "London", Active: true,
			})
			Expect(regionStore.Deactivate(ctx, created.ID)).To(Succeed())

			reactivated, err := regionStore.Upsert(ctx, model.Region{
				AdapterID: adapterID, Code: "eu-west", Name: "London", Active: true,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(reactivated.ID).To(Equal(created.ID))
			Expect(reactivated.Active).To(BeTrue())
		})

		It("scopes the natural key to the adapter", func() {
			r1, err := regionStore.Upsert(ctx, model.Region{AdapterID: adapterID, Code: "us-east", Active: true})
			Expect(err).NotTo(HaveOccurred())

			r2, err := regionStore.Upsert(ctx, model.Region{AdapterID: uuid.New(), Code: "us-east", Active: true})
			Expect(err).NotTo(HaveOccurred())

			Expect(r2.ID).NotTo(Equal(r1.ID))
		})
	})

	Describe("GetByCode", func() {
		It("finds by adapter and code", func() {
			created, _ := regionStore.Upsert(ctx, model.Region{AdapterID: adapterID, Code: "ap-south", Active: true})

			found, err := regionStore.GetByCode(ctx, adapterID, "ap-south")

			Expect(err).NotTo(HaveOccurred())
			Expect(found.ID).To(Equal(created.ID))
		})

		It("returns ErrRegionNotFound for a missing code", func() {
			_, err := regionStore.GetByCode(ctx, adapterID, "nowhere")

			Expect(err).To(Equal(store.ErrRegionNotFound))
		})

		It("does not match other regions on an empty code", func() {
			regionStore.Upsert(ctx, model.Region{AdapterID: adapterID, Code: "us-east", Active: true})

			_, err := regionStore.GetByCode(ctx, adapterID, "")

			Expect(err).To(Equal(store.ErrRegionNotFound))
		})
	})

	Describe("Deactivate", func() {
		It("clears the active flag", func() {
			created, _ := regionStore.Upsert(ctx, model.Region{AdapterID: adapterID, Code: "us-west", Active: true})

			Expect(regionStore.Deactivate(ctx, created.ID)).To(Succeed())

			found, err := regionStore.GetByCode(ctx, adapterID, "us-west")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Active).To(BeFalse())
		})
	})

	Describe("ListByAdapter", func() {
		It("returns only the adapter's regions, inactive included", func() {
			regionStore.Upsert(ctx, model.Region{AdapterID: adapterID, Code: "b-region", Active: true})
			inactive, _ := regionStore.Upsert(ctx, model.Region{AdapterID: adapterID, Code: "a-region", Active: true})
			regionStore.Deactivate(ctx, inactive.ID)
			regionStore.Upsert(ctx, model.Region{AdapterID: uuid.New(), Code: "other", Active: true})

			regions, err := regionStore.ListByAdapter(ctx, adapterID, false)

			Expect(err).NotTo(HaveOccurred())
			Expect(regions).To(HaveLen(2))
			Expect(regions[0].Code).To(Equal("a-region"))
		})

		It("filters to active regions", func() {
			regionStore.Upsert(ctx, model.Region{AdapterID: adapterID, Code: "live", Active: true})
			gone, _ := regionStore.Upsert(ctx, model.Region{AdapterID: adapterID, Code: "gone", Active: true})
			regionStore.Deactivate(ctx, gone.ID)

			regions, err := regionStore.ListByAdapter(ctx, adapterID, true)

			Expect(err).NotTo(HaveOccurred())
			Expect(regions).To(HaveLen(1))
			Expect(regions[0].Code).To(Equal("live"))
		})
	})

	Describe("ListWithCatalog", func() {
		var (
			planStore store.Plan
			specStore store.Spec
		)

		BeforeEach(func() {
			planStore = store.NewPlan(db)
			specStore = store.NewSpec(db)
		})

		It("preloads the plan and spec subtrees", func() {
			region, _ := regionStore.Upsert(ctx, model.Region{AdapterID: adapterID, Code: "us-east", Active: true})
			plan, _ := planStore.Upsert(ctx, model.Plan{RegionID: region.ID, Code: "standard", Active: true})
			_, err := specStore.Upsert(ctx, model.Spec{PlanID: plan.ID, Code: "std-2gb", RAM: 2048, Active: true})
			Expect(err).NotTo(HaveOccurred())

			regions, err := regionStore.ListWithCatalog(ctx, adapterID, false)

			Expect(err).NotTo(HaveOccurred())
			Expect(regions).To(HaveLen(1))
			Expect(regions[0].Plans).To(HaveLen(1))
			Expect(regions[0].Plans[0].Specs).To(HaveLen(1))
			Expect(regions[0].Plans[0].Specs[0].RAM).To(Equal(2048))
		})

		It("filters every level when active-only", func() {
			region, _ := regionStore.Upsert(ctx, model.Region{AdapterID: adapterID, Code: "us-east", Active: true})
			plan, _ := planStore.Upsert(ctx, model.Plan{RegionID: region.ID, Code: "standard", Active: true})
			live, _ := specStore.Upsert(ctx, model.Spec{PlanID: plan.ID, Code: "live-spec", Active: true})
			gone, _ := specStore.Upsert(ctx, model.Spec{PlanID: plan.ID, Code: "gone-spec", Active: true})
			Expect(specStore.Deactivate(ctx, gone.ID)).To(Succeed())

			regions, err := regionStore.ListWithCatalog(ctx, adapterID, true)

			Expect(err).NotTo(HaveOccurred())
			Expect(regions).To(HaveLen(1))
			Expect(regions[0].Plans).To(HaveLen(1))
			Expect(regions[0].Plans[0].Specs).To(HaveLen(1))
			Expect(regions[0].Plans[0].Specs[0].Code).To(Equal(live.Code))
		})
	})
})

var _ = Describe("Plan Store", func() {
	var (
		db        *gorm.DB
		planStore store.Plan
		regionID  uint
		ctx       context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Migrate(db)).To(Succeed())
		ctx = context.Background()

		region, err := store.NewRegion(db).Upsert(ctx, model.Region{
			AdapterID: uuid.New(), Code: "us-east", Active: true,
		})
		Expect(err).NotTo(HaveOccurred())
		regionID = region.ID

		planStore = store.NewPlan(db)
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	Describe("Upsert", func() {
		It("creates a plan for a new natural key", func() {
			plan, err := planStore.Upsert(ctx, model.Plan{
				RegionID: regionID, Code: "standard", Name: "Standard", Active: true,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(plan.ID).NotTo(BeZero())
			Expect(plan.Name).To(Equal("Standard"))
		})

		It("refreshes an existing natural key without changing the row ID", func() {
			first, _ := planStore.Upsert(ctx, model.Plan{RegionID: regionID, Code: "standard", Name: "Std", Active: true})

			second, err := planStore.Upsert(ctx, model.Plan{RegionID: regionID, Code: "standard", Name: "Standard", Active: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))
			Expect(second.Name).To(Equal("Standard"))
		})

		It("scopes the natural key to the region", func() {
			other, err := store.NewRegion(db).Upsert(ctx, model.Region{
				AdapterID: uuid.New(), Code: "eu-west", Active: true,
			})
			Expect(err).NotTo(HaveOccurred())

			p1, _ := planStore.Upsert(ctx, model.Plan{RegionID: regionID, Code: "standard", Active: true})
			p2, err := planStore.Upsert(ctx, model.Plan{RegionID: other.ID, Code: "standard", Active: true})

			Expect(err).NotTo(HaveOccurred())
			Expect(p2.ID).NotTo(Equal(p1.ID))
		})
	})

	Describe("GetByCode", func() {
		It("returns ErrPlanNotFound for a missing code", func() {
			_, err := planStore.GetByCode(ctx, regionID, "nowhere")

			Expect(err).To(Equal(store.ErrPlanNotFound))
		})
	})

	Describe("ListByRegion", func() {
		It("filters to active plans", func() {
			planStore.Upsert(ctx, model.Plan{RegionID: regionID, Code: "live", Active: true})
			gone, _ := planStore.Upsert(ctx, model.Plan{RegionID: regionID, Code: "gone", Active: true})
			Expect(planStore.Deactivate(ctx, gone.ID)).To(Succeed())

			plans, err := planStore.ListByRegion(ctx, regionID, true)

			Expect(err).NotTo(HaveOccurred())
			Expect(plans).To(HaveLen(1))
			Expect(plans[0].Code).To(Equal("live"))
		})
	})
})

var _ = Describe("Spec Store", func() {
	var (
		db        *gorm.DB
		specStore store.Spec
		planID    uint
		ctx       context.Context
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(store.Migrate(db)).To(Succeed())
		ctx = context.Background()

		region, err := store.NewRegion(db).Upsert(ctx, model.Region{
			AdapterID: uuid.New(), Code: "us-east", Active: true,
		})
		Expect(err).NotTo(HaveOccurred())
		plan, err := store.NewPlan(db).Upsert(ctx, model.Plan{
			RegionID: region.ID, Code: "standard", Active: true,
		})
		Expect(err).NotTo(HaveOccurred())
		planID = plan.ID

		specStore = store.NewSpec(db)
	})

	AfterEach(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})

	Describe("Upsert", func() {
		It("creates a spec with its hardware attributes", func() {
			spec, err := specStore.Upsert(ctx, model.Spec{
				PlanID:       planID,
				Code:         "std-2gb",
				RAM:          2048,
				CPU:          1,
				Disk:         50,
				Transfer:     2000,
				DollarsPerHr: 0.015,
				DollarsPerMo: 10,
				Active:       true,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(spec.ID).NotTo(BeZero())
			Expect(spec.RAM).To(Equal(2048))
			Expect(spec.DollarsPerMo).To(Equal(10.0))
		})

		It("overwrites attributes on an existing natural key", func() {
			first, _ := specStore.Upsert(ctx, model.Spec{
				PlanID: planID, Code: "std-2gb", RAM: 2048, CPU: 1, DollarsPerMo: 10, Active: true,
			})

			second, err := specStore.Upsert(ctx, model.Spec{
				PlanID: planID, Code: "std-2gb", RAM: 4096, CPU: 2, DollarsPerMo: 20, Active: true,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(second.ID).To(Equal(first.ID))

			found, err := specStore.GetByCode(ctx, planID, "std-2gb")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.RAM).To(Equal(4096))
			Expect(found.CPU).To(Equal(2))
			Expect(found.DollarsPerMo).To(Equal(20.0))
		})

		It("forces attributes back to zero", func() {
			specStore.Upsert(ctx, model.Spec{
				PlanID: planID, Code: "shrinking", RAM: 2048, Transfer: 2000, Active: true,
			})

			_, err := specStore.Upsert(ctx, model.Spec{
				PlanID: planID, Code: "shrinking", RAM: 2048, Transfer: 0, Active: true,
			})
			Expect(err).NotTo(HaveOccurred())

			found, err := specStore.GetByCode(ctx, planID, "shrinking")
			Expect(err).NotTo(HaveOccurred())
			Expect(found.Transfer).To(Equal(0))
		})
	})

	Describe("GetByCode", func() {
		It("returns ErrSpecNotFound for a missing code", func() {
			_, err := specStore.GetByCode(ctx, planID, "nowhere")

			Expect(err).To(Equal(store.ErrSpecNotFound))
		})
	})

	Describe("ListByPlan", func() {
		It("filters to active specs", func() {
			specStore.Upsert(ctx, model.Spec{PlanID: planID, Code: "live", Active: true})
			gone, _ := specStore.Upsert(ctx, model.Spec{PlanID: planID, Code: "gone", Active: true})
			Expect(specStore.Deactivate(ctx, gone.ID)).To(Succeed())

			specs, err := specStore.ListByPlan(ctx, planID, true)

			Expect(err).NotTo(HaveOccurred())
			Expect(specs).To(HaveLen(1))
			Expect(specs[0].Code).To(Equal("live"))
		})
	})
})
