package sim

import "github.com/san-kum/ecosim/internal/bgc"

type countMetric struct{ n int }

func newCountMetric() *countMetric { return &countMetric{} }

func (c *countMetric) Name() string     { return "days" }
func (c *countMetric) Observe(*bgc.Day) { c.n++ }
func (c *countMetric) Value() float64   { return float64(c.n) }
func (c *countMetric) Reset()           { c.n = 0 }
