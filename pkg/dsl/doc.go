/*
Package dsl provides a fluent Go builder for bot projects.

It produces the same documents the visual builder saves, so projects can be
generated from code, tests and examples without hand-writing JSON data bags.

Example usage:

	b := dsl.New("support").BotName("Support Bot")

	b.Add("start").
		Start("Hi! How can we help?").
		Button("Pricing", "pricing").
		URLButton("Docs", "https://example.com/docs")

	b.Add("pricing").
		Message("Plans start at $5.").
		AutoTransition("ask_email")

	b.Add("ask_email").
		Input("Leave your email:", "email")

	project := b.Project()
	res, err := botforge.New().Generate(ctx, project)
*/
package dsl
