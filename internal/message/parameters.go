package message

// ParameterKey identifies a setup or message parameter. Only Role is
// structurally special on the wire (an integer discriminated by a nested
// varint length); every other key carries a string payload.
type ParameterKey uint64

const (
	ParamRole ParameterKey = 0x00
)

// Role is the ROLE setup parameter's payload.
type Role uint64

const (
	RolePublisher         Role = 0x01
	RoleSubscriber         Role = 0x02
	RolePublisherSubscriber Role = 0x03
)

// Parameters is the bag of key/value pairs carried by CLIENT_SETUP,
// SERVER_SETUP, SUBSCRIBE, and ANNOUNCE. Every key maps to a string value
// except ParamRole, whose value is an integer encoded as a nested varint.
type Parameters map[ParameterKey]string

// NewParameters returns an empty parameter bag.
func NewParameters() Parameters {
	return make(Parameters)
}

// SetRole encodes role as the ROLE parameter's nested-varint payload.
func (p Parameters) SetRole(role Role) {
	p[ParamRole] = string(AppendVarint(nil, uint64(role)))
}

// Role decodes the ROLE parameter, if present. A stored value outside
// {RolePublisher, RoleSubscriber, RolePublisherSubscriber} reports false,
// the same as an absent parameter.
func (p Parameters) Role() (Role, bool) {
	raw, ok := p[ParamRole]
	if !ok {
		return 0, false
	}
	c := NewCursor([]byte(raw))
	v, err := c.ReadVarint()
	if err != nil {
		return 0, false
	}
	if v < uint64(RolePublisher) || v > uint64(RolePublisherSubscriber) {
		return 0, false
	}
	return Role(v), true
}

// SetString stores a string-valued parameter under key.
func (p Parameters) SetString(key ParameterKey, value string) {
	p[key] = value
}

// String returns a string-valued parameter, if present.
func (p Parameters) String(key ParameterKey) (string, bool) {
	v, ok := p[key]
	return v, ok
}

func (p Parameters) append(b []byte) []byte {
	b = AppendVarint(b, uint64(len(p)))
	for key, value := range p {
		b = AppendVarint(b, uint64(key))
		if key == ParamRole {
			b = AppendVarint(b, uint64(len(value)))
			b = append(b, value...)
		} else {
			b = AppendString(b, value)
		}
	}
	return b
}

func readParameters(c *Cursor) (Parameters, error) {
	mark := c.Mark()
	count, err := c.ReadVarint()
	if err != nil {
		return nil, err
	}
	if count > uint64(c.Len()) {
		// Every parameter takes at least one byte on the wire (its key);
		// a count this large cannot possibly be backed by the bytes on hand
		// yet, so treat it as underflow instead of trusting it as an
		// allocation hint.
		c.Reset(mark)
		return nil, ErrUnderflow
	}
	params := make(Parameters, count)
	for i := uint64(0); i < count; i++ {
		key, err := c.ReadVarint()
		if err != nil {
			c.Reset(mark)
			return nil, err
		}
		if ParameterKey(key) == ParamRole {
			n, err := c.ReadVarint()
			if err != nil {
				c.Reset(mark)
				return nil, err
			}
			b, err := c.ReadBytes(n)
			if err != nil {
				c.Reset(mark)
				return nil, err
			}
			roleCursor := NewCursor(b)
			roleVal, err := roleCursor.ReadVarint()
			if err != nil {
				c.Reset(mark)
				return nil, err
			}
			if roleVal < uint64(RolePublisher) || roleVal > uint64(RolePublisherSubscriber) {
				c.Reset(mark)
				return nil, &ParseError{Field: "role", Value: roleVal}
			}
			params[ParamRole] = string(b)
			continue
		}
		value, err := c.ReadString()
		if err != nil {
			c.Reset(mark)
			return nil, err
		}
		params[ParameterKey(key)] = value
	}
	return params, nil
}
