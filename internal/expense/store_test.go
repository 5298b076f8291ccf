package expense

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.etcd.io/bbolt"
)

// storeBehaviour runs the Store contract against a backend built by open
func storeBehaviour(open func(dir string) (Store, error)) {
	var (
		ctx   context.Context
		store Store
		base  time.Time
	)

	BeforeEach(func() {
		ctx = context.Background()
		base = time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)
		var err error
		store, err = open(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if store != nil {
			store.Close()
		}
	})

	Describe("InsertMany and ListExpenses", func() {
		BeforeEach(func() {
			Expect(store.InsertMany(ctx, []*Expense{
				{ID: "b", Item: "taxi", Amount: 45, Category: "Transport", CreatedAt: base},
				{ID: "c", Item: "pizza", Amount: 52.5, Category: "Food", CreatedAt: base.Add(time.Hour)},
				{ID: "a", Item: "cinema", Amount: 80, Category: "Leisure", CreatedAt: base},
			})).To(Succeed())
		})

		It("returns every expense newest first", func() {
			expenses, err := store.ListExpenses(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(expenses).To(HaveLen(3))
			Expect(expenses[0].ID).To(Equal("c"))
			Expect(expenses[1].ID).To(Equal("a"))
			Expect(expenses[2].ID).To(Equal("b"))
		})

		It("round-trips the fields", func() {
			expenses, err := store.ListExpenses(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(expenses[0].Item).To(Equal("pizza"))
			Expect(expenses[0].Amount).To(Equal(52.5))
			Expect(expenses[0].Category).To(Equal("Food"))
			Expect(expenses[0].CreatedAt).To(BeTemporally("==", base.Add(time.Hour)))
		})
	})

	Describe("ListExpenses on an empty store", func() {
		It("returns an empty, non-nil slice", func() {
			expenses, err := store.ListExpenses(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(expenses).NotTo(BeNil())
			Expect(expenses).To(BeEmpty())
		})
	})

	Describe("DeleteExpense", func() {
		BeforeEach(func() {
			Expect(store.InsertMany(ctx, []*Expense{
				{ID: "keep", Item: "bread", Amount: 8, Category: "Food", CreatedAt: base},
				{ID: "drop", Item: "bus", Amount: 6, Category: "Transport", CreatedAt: base},
			})).To(Succeed())
		})

		It("removes only the given expense", func() {
			Expect(store.DeleteExpense(ctx, "drop")).To(Succeed())
			expenses, err := store.ListExpenses(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(expenses).To(HaveLen(1))
			Expect(expenses[0].ID).To(Equal("keep"))
		})

		It("returns ErrNotFound for an unknown id", func() {
			err := store.DeleteExpense(ctx, "nope")
			Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
		})
	})

	Describe("DeleteAll", func() {
		It("removes everything and leaves the store usable", func() {
			Expect(store.InsertMany(ctx, []*Expense{
				{ID: "x", Item: "milk", Amount: 7, Category: "Food", CreatedAt: base},
			})).To(Succeed())

			Expect(store.DeleteAll(ctx)).To(Succeed())
			expenses, err := store.ListExpenses(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(expenses).To(BeEmpty())

			Expect(store.InsertMany(ctx, []*Expense{
				{ID: "y", Item: "tea", Amount: 9, Category: "Food", CreatedAt: base},
			})).To(Succeed())
			expenses, err = store.ListExpenses(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(expenses).To(HaveLen(1))
		})
	})
}

var _ = Describe("BoltStore", func() {
	storeBehaviour(func(dir string) (Store, error) {
		return NewBoltStore(filepath.Join(dir, "test.db"))
	})

	When("a stored record has a string amount", func() {
		var store *BoltStore

		BeforeEach(func() {
			var err error
			store, err = NewBoltStore(filepath.Join(GinkgoT().TempDir(), "legacy.db"))
			Expect(err).NotTo(HaveOccurred())

			err = store.db.Update(func(tx *bbolt.Tx) error {
				b := tx.Bucket([]byte(bucketName))
				if err := b.Put([]byte("s"), []byte(`{"id":"s","item":"soda","amount":"12.5","category":"Food"}`)); err != nil {
					return err
				}
				if err := b.Put([]byte("g"), []byte(`{"id":"g","item":"gum","amount":"abc","category":"Food"}`)); err != nil {
					return err
				}
				return b.Put([]byte("bad"), []byte(`not json`))
			})
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			store.Close()
		})

		It("decodes what it can and skips unreadable records", func() {
			expenses, err := store.ListExpenses(context.Background())
			Expect(err).NotTo(HaveOccurred())
			Expect(expenses).To(HaveLen(2))

			amounts := map[string]float64{}
			for _, e := range expenses {
				amounts[e.ID] = e.Amount
			}
			Expect(amounts).To(Equal(map[string]float64{"s": 12.5, "g": 0}))
		})
	})
})

var _ = Describe("SQLiteStore", func() {
	storeBehaviour(func(dir string) (Store, error) {
		return NewSQLiteStore(filepath.Join(dir, "data", "test.sqlite"))
	})

	It("rejects a non-positive amount at the schema level", func() {
		store, err := NewSQLiteStore(filepath.Join(GinkgoT().TempDir(), "test.sqlite"))
		Expect(err).NotTo(HaveOccurred())
		defer store.Close()

		err = store.InsertMany(context.Background(), []*Expense{
			{ID: "ok", Item: "tea", Amount: 3, Category: "Food", CreatedAt: time.Now()},
			{ID: "zero", Item: "air", Amount: 0, Category: "General", CreatedAt: time.Now()},
		})
		Expect(err).To(HaveOccurred())

		expenses, err := store.ListExpenses(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(expenses).To(BeEmpty())
	})

	It("can be reopened after migrating", func() {
		path := filepath.Join(GinkgoT().TempDir(), "test.sqlite")
		first, err := NewSQLiteStore(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.InsertMany(context.Background(), []*Expense{
			{ID: "p", Item: "pen", Amount: 4, Category: "General", CreatedAt: time.Now()},
		})).To(Succeed())
		Expect(first.Close()).To(Succeed())

		second, err := NewSQLiteStore(path)
		Expect(err).NotTo(HaveOccurred())
		defer second.Close()
		expenses, err := second.ListExpenses(context.Background())
		Expect(err).NotTo(HaveOccurred())
		Expect(expenses).To(HaveLen(1))
	})
})
