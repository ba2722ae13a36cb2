package protocols

import (
	"io/fs"
	"os"

	"github.com/BatikanHyt/ordertrack/pkg/order"
	"github.com/pkg/errors"
)

const scratchPattern = "order_*.json"

// PendingRequest pairs an order with the scratch file receiving its response.
type PendingRequest struct {
	Order order.Order
	Body  string

	path string
	file *os.File
}

func NewPendingRequest(dir string, o order.Order) (*PendingRequest, error) {
	f, err := os.CreateTemp(dir, scratchPattern)
	if err != nil {
		return nil, newRequestError(ErrScratchAlloc, o.Name, err)
	}
	return &PendingRequest{
		Order: o,
		Body:  o.FormBody(),
		path:  f.Name(),
		file:  f,
	}, nil
}

func (p *PendingRequest) Path() string { return p.path }

func (p *PendingRequest) Write(b []byte) (int, error) {
	if p.file == nil {
		return 0, os.ErrClosed
	}
	return p.file.Write(b)
}

func (p *PendingRequest) closeFile() error {
	if p.file == nil {
		return nil
	}
	err := p.file.Close()
	p.file = nil
	return err
}

// finalize releases the scratch file. Merged files stay on disk for the
// ledger; everything else is removed.
func (p *PendingRequest) finalize(merged bool) error {
	err := p.closeFile()
	if merged {
		return err
	}
	if rerr := os.Remove(p.path); rerr != nil && !errors.Is(rerr, fs.ErrNotExist) {
		return rerr
	}
	return nil
}
