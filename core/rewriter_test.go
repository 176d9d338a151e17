package core

import (
	"errors"
	"strings"

	"github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/rvvrollback/config"
)

func activeLines(lines []string) []string {
	var active []string
	for _, l := range lines {
		t := strings.TrimSpace(l)
		if t == "" || strings.HasPrefix(t, "#") {
			continue
		}
		active = append(active, l)
	}

	return active
}

var _ = Describe("Rewriter", func() {
	var r *Rewriter

	BeforeEach(func() {
		r = MakeBuilder().WithRules(config.DefaultTables()).Build()
	})

	Context("when no rule matches", func() {
		lines := []string{
			"",
			"loop:",
			"\tadd     a0, a1, a2",
			"\tvadd.vv v1, v2, v3",
			"# a comment mentioning nothing special",
			"\t.section .text",
			"\t.attribute 4, 16",
		}

		It("should pass lines through unchanged", func() {
			for i, line := range lines {
				res, err := r.RewriteLine(line, i+1)

				Expect(err).NotTo(HaveOccurred())
				Expect(res.Lines).To(Equal([]string{line}))
				Expect(res.Changed).To(BeFalse())
				Expect(res.Fired).To(BeEmpty())
			}
		})
	})

	Context("unsupported instructions", func() {
		It("should fail with the entry, the line and its number", func() {
			_, err := r.RewriteLine("\tvfrec7.v v1, v2", 12)

			var unsupported *UnsupportedError
			Expect(errors.As(err, &unsupported)).To(BeTrue())
			Expect(unsupported.Entry).To(Equal("vfrec7.v"))
			Expect(unsupported.Line).To(Equal("\tvfrec7.v v1, v2"))
			Expect(unsupported.LineNum).To(Equal(12))
			Expect(err.Error()).To(ContainSubstring("line 12"))
			Expect(err.Error()).To(ContainSubstring("[vfrec7.v]"))
		})

		It("should fail before any other rule runs", func() {
			tables := config.MakeBuilder().
				WithOpcodeRename("vle32.v", "vlw.v").
				WithUnsupportedOps("vle32").
				Build()
			r = MakeBuilder().WithRules(tables).Build()

			_, err := r.RewriteLine("\tvle32.v v1, (a0)", 1)

			Expect(err).To(BeAssignableToTypeOf(&UnsupportedError{}))
		})
	})

	Context("extension metadata", func() {
		It("should rename and remove entries", func() {
			tables := config.MakeBuilder().
				WithAttributeRename("a", "099").
				WithAttributeRemoval("b").
				Build()
			r = MakeBuilder().WithRules(tables).Build()

			res, err := r.RewriteLine(`.attribute 5, "a100_b200"`, 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{`.attribute 5, "a099"`}))
			Expect(res.Fired).To(Equal([]RuleKind{RuleAttribute}))
		})

		It("should downgrade a full ISA string", func() {
			line := "\t.attribute 5, \"rv64i2p0_m2p0_a2p0_f2p0_d2p0_c2p0_v1p0_zicsr2p0_zve32f1p0_zve32x1p0_zvl128b1p0\""

			res, err := r.RewriteLine(line, 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{
				"\t.attribute 5, \"rv64i2p0_m2p0_a2p0_f2p0_d2p0_c2p0_v0p7_zicsr2p0\"",
			}))
		})

		It("should drop a removed first entry", func() {
			tables := config.MakeBuilder().WithAttributeRemoval("b").Build()
			r = MakeBuilder().WithRules(tables).Build()

			res, err := r.RewriteLine(`.attribute 5, "b200_c300"`, 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{`.attribute 5, "c300"`}))
		})

		It("should leave an already downgraded string alone", func() {
			line := "\t.attribute 5, \"rv64i2p0_v0p7\""

			res, err := r.RewriteLine(line, 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{line}))
			Expect(res.Changed).To(BeFalse())
		})

		It("should accept any whitespace after the directive", func() {
			res, err := r.RewriteLine(".attribute\t5, \"v1p0\"", 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{".attribute\t5, \"v0p7\""}))
		})
	})

	Context("opcode renames", func() {
		It("should rename a mnemonic", func() {
			res, err := r.RewriteLine("\tvle32.v v1, (a0)", 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{"\tvlw.v v1, (a0)"}))
			Expect(res.Fired).To(Equal([]RuleKind{RuleOpcodeRename}))
		})

		It("should apply every matching key", func() {
			tables := config.MakeBuilder().
				WithOpcodeRename("vmandn.mm", "vmandnot.mm").
				WithOpcodeRename("v8", "v9").
				Build()
			r = MakeBuilder().WithRules(tables).Build()

			res, err := r.RewriteLine("\tvmandn.mm v8, v1, v2", 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{"\tvmandnot.mm v9, v1, v2"}))
		})

		It("should replace every occurrence", func() {
			res, err := r.RewriteLine("\tvcpop.m a0, v1 # was vcpop.m", 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{"\tvpopc.m a0, v1 # was vpopc.m"}))
		})
	})

	Context("whole-register operations", func() {
		It("should expand a whole-register load", func() {
			res, err := r.RewriteLine("\tvl1r.v v1, (t0)", 5)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Fired).To(Equal([]RuleKind{RuleWholeRegister}))
			Expect(res.Lines).To(Equal([]string{
				"# Replacing Line: 5 - vl1r.v v1, (t0)",
				"\tsd       t1, 0(sp)",
				"\tsd       t2, 8(sp)",
				"\tcsrr     t1, vl",
				"\tcsrr     t2, vtype",
				"\tvsetvli  x0, x0, e32, m1",
				"\tvlw.v    v1, (t0)",
				"\tvsetvl   x0, t1, t2",
				"\tld       t1, 0(sp)",
				"\tld       t2, 8(sp)",
				"# Replacing Line: 5 - vl1r.v v1, (t0)",
				"# Suggestion",
				"# Pick 2 unused registers e.g. t0, t1",
				"#\tcsrr     t0, vl\t\t(may be unnecessary)",
				"#\tcsrr     t1, vtype\t\t(may be unnecessary)",
				"#\tvsetvli  x0, x0, e32, m1",
				"#\tvlw.v    v1, (t0)",
				"#\tvsetvl   x0, t0, t1\t\t(may be unnecessary)",
			}))
		})

		DescribeTable("should pick scratch registers the source does not use",
			func(source string, want []string) {
				res, err := r.RewriteLine("\tvl2r.v v2, "+source, 1)

				Expect(err).NotTo(HaveOccurred())
				Expect(res.Lines[1]).To(Equal(formatInst("sd", want[0]+", 0(sp)")))
				Expect(res.Lines[2]).To(Equal(formatInst("sd", want[1]+", 8(sp)")))
			},
			Entry("t0 used", "(t0)", []string{"t1", "t2"}),
			Entry("t1 used", "(t1)", []string{"t0", "t2"}),
			Entry("t2 used", "(t2)", []string{"t0", "t1"}),
			Entry("none used", "(a0)", []string{"t0", "t1"}),
		)

		DescribeTable("should use the mapped configuration and opcode",
			func(line, vset, op string) {
				res, err := r.RewriteLine(line, 1)

				Expect(err).NotTo(HaveOccurred())
				Expect(res.Lines[5]).To(Equal(formatInst("vsetvli", vset)))
				Expect(res.Lines[6]).To(HavePrefix(formatInst(op, "")))
			},
			Entry("vl8re16.v", "\tvl8re16.v v8, (a0)", "x0, x0, e32, m8", "vlw.v"),
			Entry("vs4r.v", "\tvs4r.v v4, (a0)", "x0, x0, e32, m4", "vsw.v"),
			Entry("vmv2r.v", "\tvmv2r.v v2, v4", "x0, x0, e32, m2", "vmv.v.v"),
			Entry("vle64.v", "\tvle64.v v1, (a0)", "x0, x0, e64, m1", "vle.v"),
			Entry("vse64.v", "\tvse64.v v1, (a0)", "x0, x0, e64, m1", "vse.v"),
		)

		It("should carry the mask operand", func() {
			res, err := r.RewriteLine("\tvle64.v v1, (a0), v0.t", 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines[6]).To(Equal(formatInst("vle.v", "v1, (a0), v0.t")))
		})

		It("should fail on a mnemonic without a defined expansion", func() {
			tables := config.MakeBuilder().WithWholeRegisterOps("vmv16r.v").Build()
			r = MakeBuilder().WithRules(tables).Build()

			_, err := r.RewriteLine("\tvmv16r.v v0, v16", 3)

			var unhandled *UnhandledVariantError
			Expect(errors.As(err, &unhandled)).To(BeTrue())
			Expect(unhandled.Mnemonic).To(Equal("vmv16r.v"))
			Expect(unhandled.LineNum).To(Equal(3))
		})

		It("should fail on missing operands", func() {
			_, err := r.RewriteLine("\tvl1r.v v1", 3)

			Expect(err).To(BeAssignableToTypeOf(&UnhandledVariantError{}))
		})

		It("should ignore a comment that mentions the mnemonic", func() {
			res, err := r.RewriteLine("# vl1r.v v1, (t0)", 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Changed).To(BeFalse())
		})

		It("should ignore a trailing comment that mentions the mnemonic", func() {
			res, err := r.RewriteLine("\tvle32.v v1, (a0) # vl1r.v note", 4)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{"\tvlw.v v1, (a0) # vl1r.v note"}))
			Expect(res.Fired).To(Equal([]RuleKind{RuleOpcodeRename}))
		})

		It("should keep the label of an expanded line", func() {
			res, err := r.RewriteLine("copy:\tvmv1r.v v2, v3", 2)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines[0]).To(Equal("copy:"))
			Expect(res.Lines[1]).To(Equal("# Replacing Line: 2 - copy:\tvmv1r.v v2, v3"))
			Expect(res.Lines).To(ContainElement(formatInst("vmv.v.v", "v2, v3")))
		})
	})

	Context("vector configuration", func() {
		It("should strip the policy of vsetvli", func() {
			res, err := r.RewriteLine("\tvsetvli a0, a1, e32, m1, ta, ma", 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{"\tvsetvli a0, a1, e32, m1"}))
			Expect(res.Fired).To(Equal([]RuleKind{RuleMiscChange}))
		})

		It("should strip the policy of vsetvl", func() {
			res, err := r.RewriteLine("\tvsetvl a0, a1, a2,tu ,mu", 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{"\tvsetvl a0, a1, a2"}))
		})

		It("should strip the policy of a labelled vsetvli", func() {
			res, err := r.RewriteLine("loop:\tvsetvli a0, a1, e32, m1, ta, ma", 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{"loop:\tvsetvli a0, a1, e32, m1"}))
		})

		It("should keep the label of vsetivli", func() {
			res, err := r.RewriteLine("head:\tvsetivli a0, 4, e32, m1, ta, ma", 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines[0]).To(Equal("head:"))
			Expect(res.Lines[4]).To(Equal("\tvsetvli a0, t0, e32, m1  # rvv-rollback line 3"))
		})

		It("should not change vsetvli without a policy", func() {
			res, err := r.RewriteLine("\tvsetvli t0, a0, e8, m8", 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Changed).To(BeFalse())
		})

		It("should move the immediate AVL of vsetivli to a register", func() {
			res, err := r.RewriteLine("\tvsetivli a0, 4, e32, m1, ta, ma", 3)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{
				"# Replacing Line: 3 - vsetivli a0, 4, e32, m1, ta, ma",
				"\tsd       t0, 0(sp)  # rvv-rollback line 3",
				"\taddi     t0, x0, 4  # rvv-rollback line 3",
				"\tvsetvli a0, t0, e32, m1  # rvv-rollback line 3",
				"\tld       t0, 0(sp)  # rvv-rollback line 3",
				"# Replacing Line: 3 - vsetivli a0, 4, e32, m1, ta, ma",
				"# Suggestion",
				"# Pick an unused register e.g. t0",
				"#\taddi     t0, x0, 4",
				"#\tvsetvli a0, t0, e32, m1",
			}))

			active := activeLines(res.Lines)
			for _, l := range active {
				Expect(l).NotTo(ContainSubstring("vsetivli"))
			}
			Expect(active[len(active)-1]).NotTo(ContainSubstring("vsetivli"))
		})

		It("should not borrow the destination register", func() {
			res, err := r.RewriteLine("\tvsetivli t0, 8, e16, m2", 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines[2]).To(HavePrefix(formatInst("addi", "t1, x0, 8")))
			Expect(res.Lines[3]).To(HavePrefix("\tvsetvli t0, t1, e16, m2"))
		})

		It("should fail on vsetivli without an AVL", func() {
			_, err := r.RewriteLine("\tvsetivli a0", 1)

			Expect(err).To(BeAssignableToTypeOf(&UnhandledVariantError{}))
		})
	})

	Context("integer extension", func() {
		It("should expand vzext.vf4 into two unsigned widening adds", func() {
			res, err := r.RewriteLine("\tvzext.vf4 v2, v3", 1)

			Expect(err).NotTo(HaveOccurred())
			Expect(res.Lines).To(Equal([]string{
				"\tvwaddu.vx v2, v3, x0",
				"\tvwaddu.vx v2, v2, x0",
			}))
		})

		DescribeTable("should emit one add per doubling",
			func(mnemonic, opcode string, count int) {
				res, err := r.RewriteLine("\t"+mnemonic+" v4, v5, v0.t", 1)

				Expect(err).NotTo(HaveOccurred())
				Expect(res.Lines).To(HaveLen(count))
				Expect(res.Lines[0]).To(Equal(formatInst(opcode, "v4, v5, x0, v0.t")))
				for _, l := range res.Lines[1:] {
					Expect(l).To(Equal(formatInst(opcode, "v4, v4, x0, v0.t")))
				}
			},
			Entry("vzext.vf2", "vzext.vf2", "vwaddu.vx", 1),
			Entry("vzext.vf8", "vzext.vf8", "vwaddu.vx", 3),
			Entry("vsext.vf2", "vsext.vf2", "vwadd.vx", 1),
			Entry("vsext.vf4", "vsext.vf4", "vwadd.vx", 2),
			Entry("vsext.vf8", "vsext.vf8", "vwadd.vx", 3),
		)
	})

	It("should be deterministic", func() {
		lines := []string{
			"\t.attribute 5, \"rv64i2p0_v1p0_zve32f1p0\"",
			"\tvsetivli a0, 4, e32, m1, ta, ma",
			"\tvl4r.v v4, (a1)",
			"\tvsext.vf2 v1, v2",
			"\tvle16.v v1, (a0)",
		}

		render := func() string {
			var sb strings.Builder
			for i, l := range lines {
				res, err := r.RewriteLine(l, i+1)
				Expect(err).NotTo(HaveOccurred())
				sb.WriteString(res.Text())
				sb.WriteString("\n")
			}
			return sb.String()
		}

		Expect(render()).To(Equal(render()))
	})

	Context("with a reporter and hooks", func() {
		var (
			mockCtrl     *gomock.Controller
			mockReporter *MockDiagnosticReporter
			mockHook     *MockHook
		)

		BeforeEach(func() {
			mockCtrl = gomock.NewController(GinkgoT())
			mockReporter = NewMockDiagnosticReporter(mockCtrl)
			mockHook = NewMockHook(mockCtrl)

			r = MakeBuilder().
				WithRules(config.DefaultTables()).
				WithReporter(mockReporter).
				WithHook(mockHook).
				Build()
		})

		AfterEach(func() {
			mockCtrl.Finish()
		})

		It("should warn about whole-register expansions", func() {
			mockReporter.EXPECT().
				Warn(gomock.Any()).
				Do(func(d Diagnostic) {
					Expect(d.LineNum).To(Equal(9))
					Expect(d.Message).To(ContainSubstring("t1, t2"))
				})
			mockReporter.EXPECT().Changed(gomock.Any())
			mockHook.EXPECT().
				Func(gomock.Any()).
				Do(func(ctx sim.HookCtx) {
					Expect(ctx.Pos).To(Equal(HookPosRuleFired))
					Expect(ctx.Item).To(Equal(RuleEvent{Rule: RuleWholeRegister, LineNum: 9}))
				})

			_, err := r.RewriteLine("\tvs1r.v v1, (t0)", 9)

			Expect(err).NotTo(HaveOccurred())
		})

		It("should only report the change of a rename", func() {
			mockReporter.EXPECT().
				Changed(gomock.Any()).
				Do(func(d Diagnostic) {
					Expect(d.Original).To(Equal("\tvle8.v v1, (a0)"))
					Expect(d.Updated).To(Equal("\tvlb.v v1, (a0)"))
					Expect(d.Rules).To(Equal([]RuleKind{RuleOpcodeRename}))
				})
			mockHook.EXPECT().Func(gomock.Any())

			_, err := r.RewriteLine("\tvle8.v v1, (a0)", 2)

			Expect(err).NotTo(HaveOccurred())
		})

		It("should report nothing for pass-through lines", func() {
			_, err := r.RewriteLine("\taddi a0, a0, 1", 2)

			Expect(err).NotTo(HaveOccurred())
		})

		It("should tell the hooks about failed lines", func() {
			mockHook.EXPECT().
				Func(gomock.Any()).
				Do(func(ctx sim.HookCtx) {
					Expect(ctx.Pos).To(Equal(HookPosLineFailed))
					Expect(ctx.Detail).To(BeAssignableToTypeOf(&UnsupportedError{}))
				})

			_, err := r.RewriteLine("\tvlseg2e32.v v1, (a0)", 4)

			Expect(err).To(HaveOccurred())
		})
	})
})
