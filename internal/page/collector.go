package page

// Collector is an in-memory Output. It copies every record it receives and
// releases the page immediately. Used by dry runs and tests.
type Collector struct {
	Pages    [][][]any
	Finished bool
	Closed   bool
}

func (c *Collector) Add(p *Page) error {
	c.Pages = append(c.Pages, p.Records())
	p.Release()
	return nil
}

func (c *Collector) Finish() error {
	c.Finished = true
	return nil
}

func (c *Collector) Close() error {
	c.Closed = true
	return nil
}

// Records returns all collected records in arrival order.
func (c *Collector) Records() [][]any {
	var out [][]any
	for _, p := range c.Pages {
		out = append(out, p...)
	}
	return out
}
