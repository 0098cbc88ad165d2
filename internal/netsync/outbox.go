package netsync

// Outbox batches frames destined for one peer connection, flushing once
// the buffered byte count reaches batchBytes (spec.md §4.5 "Egress").
type Outbox struct {
	conn       Conn
	batchBytes int
	buf        []byte
}

func newOutbox(conn Conn, batchBytes int) *Outbox {
	return &Outbox{conn: conn, batchBytes: batchBytes}
}

func (o *Outbox) enqueue(frame []byte) error {
	o.buf = append(o.buf, frame...)
	if len(o.buf) >= o.batchBytes {
		return o.flush()
	}
	return nil
}

func (o *Outbox) flush() error {
	if len(o.buf) == 0 {
		return nil
	}
	if _, err := o.conn.Write(o.buf); err != nil {
		return err
	}
	o.buf = o.buf[:0]
	return nil
}
