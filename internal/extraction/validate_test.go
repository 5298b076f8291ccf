package extraction

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/expense-tracker/internal/category"
)

func newTestNormalizer() *category.Normalizer {
	n, err := category.New(category.DefaultConfig())
	Expect(err).NotTo(HaveOccurred())
	return n
}

var _ = Describe("Validator", func() {
	var (
		validator  *Validator
		candidates []Candidate
		valid      []Extracted
		err        error
	)

	BeforeEach(func() {
		var vErr error
		validator, vErr = NewValidator(newTestNormalizer(), DefaultSentinels)
		Expect(vErr).NotTo(HaveOccurred())
	})

	JustBeforeEach(func() {
		valid, err = validator.Validate(candidates)
	})

	When("one candidate is valid and one is not", func() {
		BeforeEach(func() {
			candidates, _ = ParseResponse(`[{"item":"Bus","amount":12,"category":"Transport"},{"item":"","amount":0}]`)
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("keeps only the valid candidate", func() {
			Expect(valid).To(Equal([]Extracted{{Item: "Bus", Amount: 12, Category: "Transport"}}))
		})
	})

	When("every candidate is a sentinel", func() {
		BeforeEach(func() {
			candidates, _ = ParseResponse(`[{"item":"---","amount":0}]`)
		})

		It("returns ErrNoValidExpense", func() {
			Expect(err).To(MatchError(ErrNoValidExpense))
		})
	})

	When("the sentinel has a positive amount", func() {
		BeforeEach(func() {
			candidates, _ = ParseResponse(`[{"item":" --- ","amount":40}]`)
		})

		It("still rejects it", func() {
			Expect(err).To(MatchError(ErrNoValidExpense))
		})
	})

	When("there are no candidates", func() {
		BeforeEach(func() {
			candidates = nil
		})

		It("returns ErrNoValidExpense", func() {
			Expect(err).To(MatchError(ErrNoValidExpense))
		})
	})

	DescribeTable("rejecting malformed candidates",
		func(raw string) {
			cs, parseErr := ParseResponse(raw)
			Expect(parseErr).NotTo(HaveOccurred())
			_, vErr := validator.Validate(cs)
			Expect(vErr).To(MatchError(ErrNoValidExpense))
		},
		Entry("missing item", `[{"amount":10}]`),
		Entry("missing amount", `[{"item":"Bread"}]`),
		Entry("string amount", `[{"item":"Bread","amount":"10"}]`),
		Entry("negative amount", `[{"item":"Bread","amount":-3}]`),
		Entry("zero amount", `[{"item":"Bread","amount":0}]`),
		Entry("whitespace item", `[{"item":"   ","amount":10}]`),
		Entry("numeric item", `[{"item":42,"amount":10}]`),
		Entry("null item", `[{"item":null,"amount":10}]`),
	)

	When("the category is missing or not a string", func() {
		BeforeEach(func() {
			candidates, _ = ParseResponse(`[{"item":"Socks","amount":20},{"item":"Hat","amount":30,"category":7}]`)
		})

		It("defaults the category to General", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(valid).To(HaveLen(2))
			Expect(valid[0].Category).To(Equal(category.General))
			Expect(valid[1].Category).To(Equal(category.General))
		})
	})

	When("the category is a synonym", func() {
		BeforeEach(func() {
			candidates, _ = ParseResponse(`[{"item":"לחם","amount":10,"category":"מזון"}]`)
		})

		It("normalizes it", func() {
			Expect(valid[0].Category).To(Equal(category.Food))
		})
	})

	When("the item has surrounding whitespace", func() {
		BeforeEach(func() {
			candidates, _ = ParseResponse(`[{"item":"  Pizza ","amount":55.5,"category":"Food"}]`)
		})

		It("trims it and keeps decimal amounts", func() {
			Expect(valid[0].Item).To(Equal("Pizza"))
			Expect(valid[0].Amount).To(Equal(55.5))
		})
	})

	When("the candidate carries a date", func() {
		BeforeEach(func() {
			candidates, _ = ParseResponse(`[{"item":"Pizza","amount":50,"date":"2024-03-20"},{"item":"Tea","amount":5,"date":"yesterday"},{"item":"Jam","amount":9,"date":"2024/03/21"},{"item":"Oil","amount":30,"date":"03/04/2024"}]`)
		})

		It("parses the date when it can", func() {
			Expect(valid[0].Date).To(Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)))
		})

		It("accepts year-first slashed dates", func() {
			Expect(valid[2].Date).To(Equal(time.Date(2024, 3, 21, 0, 0, 0, 0, time.UTC)))
		})

		It("ignores day/month dates whose order is ambiguous", func() {
			Expect(valid[3].Date.IsZero()).To(BeTrue())
		})

		It("leaves the date zero when it cannot", func() {
			Expect(valid[1].Date.IsZero()).To(BeTrue())
		})
	})
})
