package main

import (
	"fmt"
	"log"
	"os"

	"github.com/lucasefe/dbdiagram"
	"github.com/lucasefe/dbdiagram/config"
	"github.com/lucasefe/dbdiagram/diagram"
	"github.com/lucasefe/dbdiagram/relation"
)

const shop = `Project shop {
  database_type: 'PostgreSQL'
}

Table orders {
  id int [pk, increment]
  status varchar [not null, default: 'pending']
}

Table order_items {
  order_id int [ref: > orders.id]
  product_id int
  quantity int [default: 1]
}

Table products {
  id int [pk]
  name varchar
}

Ref: order_items.product_id > products.id
`

func main() {
	outputFile := "shop.svg"
	if len(os.Args) > 1 {
		outputFile = os.Args[1]
	}

	res := dbdiagram.Resolve(shop)
	for _, d := range res.Diagnostics {
		fmt.Printf("%s: %s\n", d.Severity, d.Message)
	}

	index := relation.FieldIndex(res.Model)
	for _, r := range relation.Derive(res.Model) {
		from, to := index[r.FromFieldID], index[r.ToFieldID]
		fmt.Printf("%s.%s -> %s.%s\n", from.Table.Name, from.Field.Name, to.Table.Name, to.Field.Name)
	}

	cfg := config.Default()
	c := dbdiagram.NewController(cfg, nil)
	defer c.Close()
	c.SetModel(res.Model)

	// pull products below orders and mark the row line
	for _, p := range c.Placements() {
		if p.Table.Name == "products" {
			c.MoveTable(p.Table.ID, -p.Rect.X, 200)
		}
	}
	c.AddGuide(diagram.Guide{Orientation: diagram.Horizontal, Position: 180})

	f, err := os.Create(outputFile)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", outputFile, err)
	}
	defer f.Close()

	if err := dbdiagram.RenderController(f, c, cfg); err != nil {
		log.Fatalf("Failed to render diagram: %v", err)
	}
	fmt.Printf("Successfully rendered %d tables to %s\n", len(c.Placements()), outputFile)
}
