// Package hoover embeds the Hoover archive bot in a Go program.
//
// The client runs the same question pipeline as the HTTP service against a
// Redis document index: cryptonym lookup, optional NLP term extraction,
// full-text search and result cards.
//
//	client, _ := hoover.New(ctx,
//	    hoover.WithRedis("localhost:6379", ""),
//	    hoover.WithSearchSite("https://jfk.example.com/#q="),
//	    hoover.WithCryptonyms(map[string]string{"GPIDEAL": "John F. Kennedy"}),
//	)
//	defer client.Close()
//
//	msgs, _ := client.Ask(ctx, "What does GPIDEAL mean?")
//	for _, m := range msgs {
//	    fmt.Println(m.Text)
//	}
package hoover
