package model

import "github.com/go-faster/jx"

func encodeOptString(e *jx.Encoder, o OptString) {
	if !o.Set {
		e.Null()
		return
	}
	e.Str(o.Value)
}

// Encode writes the message as JSON object.
func (m ServiceMessage) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("type")
	e.Str(m.Type)
	e.FieldStart("code")
	e.Str(m.Code)
	e.FieldStart("message")
	e.Str(m.Message)
	e.FieldStart("additionalInfo")
	e.Str(m.AdditionalInfo)
	e.ObjEnd()
}

func (m ServiceMessage) MarshalJSON() ([]byte, error) {
	e := jx.Encoder{}
	m.Encode(&e)
	return e.Bytes(), nil
}

func (d *AuthorizedDocument) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("access_key")
	encodeOptString(e, d.AccessKey)
	e.FieldStart("xml")
	encodeOptString(e, d.XML)
	e.FieldStart("date")
	encodeOptString(e, d.AuthorizationDate)
	e.ObjEnd()
}

func (d *AuthorizedDocument) MarshalJSON() ([]byte, error) {
	e := jx.Encoder{}
	d.Encode(&e)
	return e.Bytes(), nil
}

// Encode writes the result. authorized_document and attempts appear only for
// authorization results.
func (r *OperationResult) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("success")
	e.Bool(r.Success)
	e.FieldStart("status")
	encodeOptString(e, r.Status)

	e.FieldStart("messages")
	e.ArrStart()
	for _, m := range r.Messages {
		m.Encode(e)
	}
	e.ArrEnd()
	if r.Error.Set {
		e.FieldStart("error")
		e.Str(r.Error.Value)
	}
	if r.AuthorizedDocument != nil {
		e.FieldStart("authorized_document")
		r.AuthorizedDocument.Encode(e)
	}
	if r.Attempts > 0 {
		e.FieldStart("attempts")
		e.Int(r.Attempts)
	}
	e.ObjEnd()
}

func (r *OperationResult) MarshalJSON() ([]byte, error) {
	e := jx.Encoder{}
	r.Encode(&e)
	return e.Bytes(), nil
}

func (r *CombinedResult) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("success")
	e.Bool(r.Success)
	e.FieldStart("status")
	encodeOptString(e, r.Status)
	if r.Validation != nil {
		e.FieldStart("validation")
		r.Validation.Encode(e)
	}
	if r.Authorization != nil {
		e.FieldStart("authorization")
		r.Authorization.Encode(e)
	}
	if r.Error.Set {
		e.FieldStart("error")
		e.Str(r.Error.Value)
	}
	e.ObjEnd()
}

func (r *CombinedResult) MarshalJSON() ([]byte, error) {
	e := jx.Encoder{}
	r.Encode(&e)
	return e.Bytes(), nil
}
