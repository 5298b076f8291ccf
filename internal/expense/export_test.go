package expense

import (
	"bytes"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/xuri/excelize/v2"
)

var _ = Describe("WriteXLSX", func() {
	var (
		buf      bytes.Buffer
		expenses []*Expense
		totals   []CategoryTotal
	)

	BeforeEach(func() {
		buf.Reset()
		at := time.Date(2026, 2, 3, 14, 5, 0, 0, time.UTC)
		expenses = []*Expense{
			{ID: "1", Item: "pizza", Amount: 50, Category: "Food", CreatedAt: at},
			{ID: "2", Item: "taxi", Amount: 30.5, Category: "Transport", CreatedAt: at},
		}
		totals = []CategoryTotal{
			{Category: "Food", Total: 50},
			{Category: "Transport", Total: 30.5},
		}
	})

	It("writes an expenses sheet and a summary sheet", func() {
		Expect(WriteXLSX(&buf, expenses, totals)).To(Succeed())

		f, err := excelize.OpenReader(&buf)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		Expect(f.GetSheetList()).To(Equal([]string{"Expenses", "Summary"}))

		rows, err := f.GetRows("Expenses")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(3))
		Expect(rows[0]).To(Equal([]string{"Date", "Item", "Category", "Amount"}))
		Expect(rows[1]).To(Equal([]string{"2026-02-03 14:05", "pizza", "Food", "50"}))
		Expect(rows[2][3]).To(Equal("30.5"))

		summary, err := f.GetRows("Summary")
		Expect(err).NotTo(HaveOccurred())
		Expect(summary).To(Equal([][]string{
			{"Category", "Total"},
			{"Food", "50"},
			{"Transport", "30.5"},
		}))
	})

	It("writes only headers when there is nothing to export", func() {
		Expect(WriteXLSX(&buf, nil, nil)).To(Succeed())

		f, err := excelize.OpenReader(&buf)
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()

		rows, err := f.GetRows("Expenses")
		Expect(err).NotTo(HaveOccurred())
		Expect(rows).To(HaveLen(1))
	})
})
