package selector

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// SelectDefault returns the index of the candidate picked by rules, or None.
// None means either an Off rule was reached or no rule matched; callers fall back
// to the first candidate themselves when that is the desired behaviour.
func SelectDefault(rules []Rule, labels []string) mo.Option[int] {
	if len(rules) == 0 || len(labels) == 0 {
		return mo.None[int]()
	}

	for _, rule := range rules {
		if rule.kind == KindOff {
			return mo.None[int]()
		}

		for i, label := range labels {
			if rule.matches(i, label) {
				return mo.Some(i)
			}
		}
	}

	return mo.None[int]()
}

// Pick applies SelectDefault to arbitrary items, reading each item's label through label.
func Pick[T any](rules []Rule, items []T, label func(T) string) mo.Option[T] {
	labels := lo.Map(items, func(item T, _ int) string { return label(item) })
	index, ok := SelectDefault(rules, labels).Get()
	if !ok {
		return mo.None[T]()
	}
	return mo.Some(items[index])
}

// PickOrFirst is Pick with the first item as the fallback. The index of the chosen
// item is returned alongside it; an empty list yields None.
func PickOrFirst[T any](rules []Rule, items []T, label func(T) string) mo.Option[lo.Tuple2[int, T]] {
	if len(items) == 0 {
		return mo.None[lo.Tuple2[int, T]]()
	}

	labels := lo.Map(items, func(item T, _ int) string { return label(item) })
	index := SelectDefault(rules, labels).OrElse(0)
	return mo.Some(lo.T2(index, items[index]))
}
