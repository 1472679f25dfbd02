package riesel

import (
	"io"
	"math/big"
	"strconv"

	"github.com/valyala/fasttemplate"
)

// calc(1) statements that let an independent implementation check every
// step of a run. The lucas.cal resource file ships with calc.
var (
	calcShortcutTmpl = fasttemplate.New(
		"read lucas;\n"+
			"ret = lucas({{h}}, {{n}});\n"+
			"if (ret == {{ret}}) { print \"returned {{verdict}}\"; } else { print \"failed returning\", ret; };\n"+
			"print \"{{orig_h}} * 2 ^ {{orig_n}} - 1 is {{verdict}}\";\n",
		"{{", "}}")

	calcMod3Tmpl = fasttemplate.New(
		"print \"{{orig_h}} * 2 ^ {{orig_n}} - 1 is a multiple of 3 > 3\";\n"+
			"mod3 = (({{orig_h}} * 2 ^ {{orig_n}} - 1) % 3);\n"+
			"if (mod3 == 0) { print \"value mod 3:\", mod3; } else { print \"failed: mod 3 != 0:\", mod3 };\n"+
			"print \"{{orig_h}} * 2 ^ {{orig_n}} - 1 is composite\";\n",
		"{{", "}}")

	calcHeaderTmpl = fasttemplate.New(
		"print \"original test {{orig_h}} * 2 ^ {{orig_n}} - 1\";\n"+
			"print \"about to test {{h}} * 2 ^ {{n}} - 1\";\n"+
			"riesel_cand = {{h}} * 2 ^ {{n}} - 1;\n",
		"{{", "}}")

	calcFirstTermTmpl = fasttemplate.New(
		"read lucas;\n"+
			"u_term = gen_u0({{h}}, {{n}}, gen_v1({{h}}, {{n}}));\n"+
			"gmprime_u_term = {{u}};\n"+
			"if (u_term == gmprime_u_term) { print \"u[2] value set correctly\"; } "+
			"else { quit \"u[2] value not correctly set\"; }\n",
		"{{", "}}")

	calcTermTmpl = fasttemplate.New(
		"u_term = (u_term^2 - 2) % riesel_cand;\n"+
			"gmprime_u_term = {{u}};\n"+
			"if (u_term != gmprime_u_term) { quit \"bad calculation of u[{{i}}]\"; }\n",
		"{{", "}}")

	calcVerdictTmpl = fasttemplate.New(
		"if (u_term {{op}} 0) { print \"u[{{i}}] {{op}} 0\"; } else { print \"ERROR: u[{{i}}] {{not_op}} 0\"; }\n"+
			"print \"{{orig_h}} * 2 ^ {{orig_n}} - 1 is {{verdict}}\";\n",
		"{{", "}}")
)

// calcWriter writes calc statements and keeps the first write error.
type calcWriter struct {
	w    io.Writer
	c    Candidate
	err  error
	last uint64
}

func newCalcWriter(w io.Writer, c Candidate) *calcWriter {
	return &calcWriter{w: w, c: c}
}

func (cw *calcWriter) vars(extra map[string]interface{}) map[string]interface{} {
	m := map[string]interface{}{
		"h":      strconv.FormatUint(cw.c.H, 10),
		"n":      strconv.FormatUint(cw.c.N, 10),
		"orig_h": strconv.FormatUint(cw.c.OrigH, 10),
		"orig_n": strconv.FormatUint(cw.c.OrigN, 10),
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func (cw *calcWriter) exec(t *fasttemplate.Template, extra map[string]interface{}) {
	if cw.w == nil || cw.err != nil {
		return
	}
	_, cw.err = t.Execute(cw.w, cw.vars(extra))
}

func (cw *calcWriter) shortcut(v Verdict) {
	ret := "0"
	if v == Prime {
		ret = "1"
	}
	cw.exec(calcShortcutTmpl, map[string]interface{}{"ret": ret, "verdict": v.String()})
}

func (cw *calcWriter) multipleOfThree() {
	cw.exec(calcMod3Tmpl, nil)
}

func (cw *calcWriter) header() {
	cw.exec(calcHeaderTmpl, nil)
}

func (cw *calcWriter) firstTerm(u *big.Int) {
	cw.last = 2
	if cw.w == nil {
		return
	}
	cw.exec(calcFirstTermTmpl, map[string]interface{}{"u": u.String()})
}

func (cw *calcWriter) term(u *big.Int, i uint64) {
	cw.last = i
	if cw.w == nil {
		return
	}
	cw.exec(calcTermTmpl, map[string]interface{}{
		"u": u.String(),
		"i": strconv.FormatUint(i, 10),
	})
}

func (cw *calcWriter) verdict(v Verdict) {
	op, notOp := "!=", "=="
	if v == Prime {
		op, notOp = "==", "!="
	}
	cw.exec(calcVerdictTmpl, map[string]interface{}{
		"op":      op,
		"not_op":  notOp,
		"i":       strconv.FormatUint(cw.last, 10),
		"verdict": v.String(),
	})
}
