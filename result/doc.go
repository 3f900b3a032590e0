// Package result provides an explicit success-or-error value.
//
// A Result is the codec's error channel for multi-step reads: each step
// runs only if the previous one succeeded, and the first error travels to
// the end of the chain untouched unless OrElse decorates it.
//
//	disc := result.Try(result.From(r.ToObject(node)), func(o document.Object) (document.Node, error) {
//		return r.Field("type", o)
//	})
//	name := result.Try(disc, r.ToString).OrElse(func(error) error {
//		return errors.MissingDiscriminator("type")
//	})
//
// Result is a value type and safe to copy.
package result
