package bind

// paramScanner walks a signature's parameters left to right. The method
// receiver, when present, is the first element.
type paramScanner struct {
	params []Param
	pos    int
}

func newParamScanner(sig *Signature) *paramScanner {
	params := make([]Param, 0, len(sig.Params)+1)
	if sig.Recv != nil {
		params = append(params, *sig.Recv)
	}
	params = append(params, sig.Params...)
	return &paramScanner{params: params}
}

func (s *paramScanner) peek() (*Param, bool) {
	if s.pos >= len(s.params) {
		return nil, false
	}
	return &s.params[s.pos], true
}

func (s *paramScanner) next() {
	s.pos++
}

// receivers consumes the maximal receiver prefix.
func (s *paramScanner) receivers() []Receiver {
	var receivers []Receiver
	for {
		p, ok := s.peek()
		if !ok || !p.Kind.isReceiver() {
			return receivers
		}
		switch p.Kind {
		case KindSelf:
			receivers = append(receivers, SelfContext)
		case KindSelfCopy:
			receivers = append(receivers, SelfCopy)
		case KindWorld:
			receivers = append(receivers, WorldContext)
		}
		s.next()
	}
}

// leftover reports the first unconsumed parameter.
func (s *paramScanner) leftover() *Diagnostic {
	p, ok := s.peek()
	if !ok {
		return nil
	}
	return diagnosticf(p.Pos, "unexpected parameter %s %s", paramLabel(p), p.Type)
}

func paramLabel(p *Param) string {
	if p.Name == "" || p.Name == "_" {
		return "(unnamed)"
	}
	return p.Name
}

func valueParameter(p *Param) Parameter {
	mode := Convert
	if p.Kind == KindValue {
		mode = Direct
	}
	return Parameter{Mode: mode, Type: p.Type, GoType: p.GoType, RType: p.RType}
}

// ClassifyFunction classifies sig as a native function bound under name.
func ClassifyFunction(name string, sig *Signature) (*Function, *Diagnostic) {
	s := newParamScanner(sig)
	fn := &Function{
		Name:   name,
		GoName: sig.Name,
		Method: sig.Recv != nil,
		Pos:    sig.Pos,
	}
	fn.Receivers = s.receivers()

	for {
		p, ok := s.peek()
		if !ok || p.Kind.isReceiver() || p.Kind == KindValues {
			break
		}
		if p.Variadic {
			// ...T for any T other than vm.Value cannot take the rest slice.
			break
		}
		fn.Params = append(fn.Params, valueParameter(p))
		s.next()
	}

	if p, ok := s.peek(); ok && p.Kind == KindValues {
		fn.Variadic = true
		fn.Spread = p.Variadic
		s.next()
	}

	if d := s.leftover(); d != nil {
		return nil, d
	}

	switch results := sig.Results; {
	case len(results) == 0:
		fn.Return = Plain
	case len(results) == 1 && results[0].IsError:
		fn.Return = Fallible
	case len(results) == 1:
		fn.Return = Plain
		fn.HasResult = true
	case len(results) == 2 && results[1].IsError && !results[0].IsError:
		fn.Return = Fallible
		fn.HasResult = true
	default:
		return nil, diagnosticf(sig.Pos, "unexpected result list for %s: want (), (T), (error) or (T, error)", sig.Name)
	}

	return fn, nil
}

// ClassifyGetter classifies sig as a member getter.
func ClassifyGetter(sig *Signature) (*Property, *Diagnostic) {
	prop, s := classifyProperty(sig, newParamScanner(sig))
	if d := s.leftover(); d != nil {
		return nil, d
	}
	if len(sig.Results) != 1 || sig.Results[0].IsError {
		return nil, diagnosticf(sig.Pos, "getter %s must return exactly one value", sig.Name)
	}
	return prop, nil
}

// ClassifySetter classifies sig as a member setter. The final parameter is
// always the value, so a setter may take an int or vm.Entity value without
// it being mistaken for the slot or entity argument.
func ClassifySetter(sig *Signature) (*Property, *Diagnostic) {
	s := newParamScanner(sig)
	prefix := len(s.receivers())
	if len(s.params) == prefix {
		return nil, diagnosticf(sig.Pos, "setter %s requires a value parameter", sig.Name)
	}

	last := s.params[len(s.params)-1]
	s.params = s.params[:len(s.params)-1]
	prop, s := classifyProperty(sig, s)
	if d := s.leftover(); d != nil {
		return nil, d
	}
	if last.Kind.isReceiver() || last.Kind == KindValues || last.Variadic {
		return nil, diagnosticf(last.Pos, "unexpected parameter %s %s", paramLabel(&last), last.Type)
	}
	v := valueParameter(&last)
	prop.Value = &v

	if len(sig.Results) != 0 {
		return nil, diagnosticf(sig.Pos, "setter %s must not return a value", sig.Name)
	}
	return prop, nil
}

// classifyProperty consumes the receiver prefix and the optional entity
// and slot parameters shared by getters and setters.
func classifyProperty(sig *Signature, s *paramScanner) (*Property, *paramScanner) {
	s.pos = 0
	prop := &Property{
		Name:   sig.Name,
		Method: sig.Recv != nil,
		Pos:    sig.Pos,
	}
	prop.Receivers = s.receivers()

	if p, ok := s.peek(); ok && p.Kind == KindEntity {
		prop.Entity = true
		s.next()
	}
	if p, ok := s.peek(); ok && p.Kind == KindSlot {
		prop.Slot = true
		s.next()
	}
	return prop, s
}
