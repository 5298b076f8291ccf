package extraction

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/zombor/expense-tracker/internal/category"
)

var _ = Describe("Rules", func() {
	var rules *Rules

	BeforeEach(func() {
		rules = NewRules(DefaultRulesConfig(), newTestNormalizer())
	})

	Describe("Candidate", func() {
		DescribeTable("deriving one candidate from text",
			func(text, item string, amount float64, cat string) {
				c := rules.Candidate(text)
				Expect(c).To(HaveKeyWithValue("item", item))
				Expect(c).To(HaveKeyWithValue("amount", amount))
				Expect(c).To(HaveKeyWithValue("category", cat))
			},
			Entry("english food", "sushi for 120 shekels", "sushi", 120.0, category.Food),
			Entry("hebrew food", "פיצה ב-50 שקל", "פיצה", 50.0, category.Food),
			Entry("transport", "taxi 45 NIS", "taxi", 45.0, category.Transport),
			Entry("leisure", "I paid 80 for cinema tickets", "cinema tickets", 80.0, category.Leisure),
			Entry("first number wins", "socks 20 and shoes 300", "socks and shoes", 20.0, category.General),
			Entry("no number", "bought a new lamp", "new lamp", 0.0, category.General),
			Entry("currency symbol", "₪35 coffee", "coffee", 35.0, category.Food),
			Entry("only filler", "paid 100 shekels", "Expense", 100.0, category.General),
			Entry("empty", "", "Expense", 0.0, category.General),
		)

		It("always yields a non-negative amount and a non-empty item", func() {
			inputs := []string{"", "   ", "12345678901234567890123", "---", "!!!", "ש\"ח 40", "for for for", "\n\t"}
			for _, text := range inputs {
				c := rules.Candidate(text)
				Expect(c["amount"]).To(BeNumerically(">=", 0), "text %q", text)
				Expect(c["item"]).NotTo(BeEmpty(), "text %q", text)
			}
		})
	})

	Describe("Extract", func() {
		It("returns a one-element array that parses and validates", func() {
			raw, err := rules.Extract(context.Background(), "sushi for 120 shekels")
			Expect(err).NotTo(HaveOccurred())

			candidates, err := ParseResponse(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(candidates).To(HaveLen(1))

			validator, err := NewValidator(newTestNormalizer(), DefaultSentinels)
			Expect(err).NotTo(HaveOccurred())
			valid, err := validator.Validate(candidates)
			Expect(err).NotTo(HaveOccurred())
			Expect(valid).To(Equal([]Extracted{{Item: "sushi", Amount: 120, Category: category.Food}}))
		})

		It("yields ErrNoValidExpense downstream when there is no amount", func() {
			raw, err := rules.Extract(context.Background(), "a lamp")
			Expect(err).NotTo(HaveOccurred())

			candidates, err := ParseResponse(raw)
			Expect(err).NotTo(HaveOccurred())

			validator, _ := NewValidator(newTestNormalizer(), DefaultSentinels)
			_, err = validator.Validate(candidates)
			Expect(err).To(MatchError(ErrNoValidExpense))
		})
	})
})
