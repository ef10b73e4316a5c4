package builtins

import "kernelsym/internal/catalog"

// Legacy convenience queries. Each one is a projection of Lookup's category
// and does no parsing of its own.

func (r *Registry) category(raw string) catalog.Category {
	return r.Lookup(raw).Category()
}

func (r *Registry) calleeCategory(c Callee) catalog.Category {
	return r.LookupFunc(c).Category()
}

func isImageBuiltin(c catalog.Category) bool { return c.Kind.IsImage() }

func isSampledRead(c catalog.Category) bool { return c.Kind == catalog.KindImageReadSampled }

func isUnsampledRead(c catalog.Category) bool { return c.Kind == catalog.KindImageReadUnsampled }

func isWrite(c catalog.Category) bool { return c.Kind == catalog.KindImageWrite }

func withFormat(pred func(catalog.Category) bool, f catalog.PixelFormat) func(catalog.Category) bool {
	return func(c catalog.Category) bool { return pred(c) && c.Format == f }
}

func isKind(k catalog.Kind) func(catalog.Category) bool {
	return func(c catalog.Category) bool { return c.Kind == k }
}

func isImageQuery(c catalog.Category) bool { return c.Kind.IsImageQuery() }

var (
	isFloatSampledRead   = withFormat(isSampledRead, catalog.FormatFloat)
	isUintSampledRead    = withFormat(isSampledRead, catalog.FormatUint)
	isIntSampledRead     = withFormat(isSampledRead, catalog.FormatInt)
	isFloatUnsampledRead = withFormat(isUnsampledRead, catalog.FormatFloat)
	isUintUnsampledRead  = withFormat(isUnsampledRead, catalog.FormatUint)
	isIntUnsampledRead   = withFormat(isUnsampledRead, catalog.FormatInt)
	isFloatWrite         = withFormat(isWrite, catalog.FormatFloat)
	isUintWrite          = withFormat(isWrite, catalog.FormatUint)
	isIntWrite           = withFormat(isWrite, catalog.FormatInt)
	isGetImageHeight     = isKind(catalog.KindImageQueryHeight)
	isGetImageWidth      = isKind(catalog.KindImageQueryWidth)
	isGetImageDepth      = isKind(catalog.KindImageQueryDepth)
	isGetImageDim        = isKind(catalog.KindImageQueryDim)
)

func (r *Registry) IsImageBuiltin(raw string) bool { return isImageBuiltin(r.category(raw)) }
func (r *Registry) IsImageBuiltinFunc(c Callee) bool {
	return isImageBuiltin(r.calleeCategory(c))
}

func (r *Registry) IsSampledImageRead(raw string) bool { return isSampledRead(r.category(raw)) }
func (r *Registry) IsSampledImageReadFunc(c Callee) bool {
	return isSampledRead(r.calleeCategory(c))
}

func (r *Registry) IsFloatSampledImageRead(raw string) bool {
	return isFloatSampledRead(r.category(raw))
}
func (r *Registry) IsFloatSampledImageReadFunc(c Callee) bool {
	return isFloatSampledRead(r.calleeCategory(c))
}

func (r *Registry) IsUintSampledImageRead(raw string) bool {
	return isUintSampledRead(r.category(raw))
}
func (r *Registry) IsUintSampledImageReadFunc(c Callee) bool {
	return isUintSampledRead(r.calleeCategory(c))
}

func (r *Registry) IsIntSampledImageRead(raw string) bool {
	return isIntSampledRead(r.category(raw))
}
func (r *Registry) IsIntSampledImageReadFunc(c Callee) bool {
	return isIntSampledRead(r.calleeCategory(c))
}

func (r *Registry) IsUnsampledImageRead(raw string) bool {
	return isUnsampledRead(r.category(raw))
}
func (r *Registry) IsUnsampledImageReadFunc(c Callee) bool {
	return isUnsampledRead(r.calleeCategory(c))
}

func (r *Registry) IsFloatUnsampledImageRead(raw string) bool {
	return isFloatUnsampledRead(r.category(raw))
}
func (r *Registry) IsFloatUnsampledImageReadFunc(c Callee) bool {
	return isFloatUnsampledRead(r.calleeCategory(c))
}

func (r *Registry) IsUintUnsampledImageRead(raw string) bool {
	return isUintUnsampledRead(r.category(raw))
}
func (r *Registry) IsUintUnsampledImageReadFunc(c Callee) bool {
	return isUintUnsampledRead(r.calleeCategory(c))
}

func (r *Registry) IsIntUnsampledImageRead(raw string) bool {
	return isIntUnsampledRead(r.category(raw))
}
func (r *Registry) IsIntUnsampledImageReadFunc(c Callee) bool {
	return isIntUnsampledRead(r.calleeCategory(c))
}

func (r *Registry) IsImageWrite(raw string) bool   { return isWrite(r.category(raw)) }
func (r *Registry) IsImageWriteFunc(c Callee) bool { return isWrite(r.calleeCategory(c)) }

func (r *Registry) IsFloatImageWrite(raw string) bool   { return isFloatWrite(r.category(raw)) }
func (r *Registry) IsFloatImageWriteFunc(c Callee) bool { return isFloatWrite(r.calleeCategory(c)) }

func (r *Registry) IsUintImageWrite(raw string) bool   { return isUintWrite(r.category(raw)) }
func (r *Registry) IsUintImageWriteFunc(c Callee) bool { return isUintWrite(r.calleeCategory(c)) }

func (r *Registry) IsIntImageWrite(raw string) bool   { return isIntWrite(r.category(raw)) }
func (r *Registry) IsIntImageWriteFunc(c Callee) bool { return isIntWrite(r.calleeCategory(c)) }

func (r *Registry) IsGetImageHeight(raw string) bool { return isGetImageHeight(r.category(raw)) }
func (r *Registry) IsGetImageHeightFunc(c Callee) bool {
	return isGetImageHeight(r.calleeCategory(c))
}

func (r *Registry) IsGetImageWidth(raw string) bool { return isGetImageWidth(r.category(raw)) }
func (r *Registry) IsGetImageWidthFunc(c Callee) bool {
	return isGetImageWidth(r.calleeCategory(c))
}

func (r *Registry) IsGetImageDepth(raw string) bool { return isGetImageDepth(r.category(raw)) }
func (r *Registry) IsGetImageDepthFunc(c Callee) bool {
	return isGetImageDepth(r.calleeCategory(c))
}

func (r *Registry) IsGetImageDim(raw string) bool { return isGetImageDim(r.category(raw)) }
func (r *Registry) IsGetImageDimFunc(c Callee) bool {
	return isGetImageDim(r.calleeCategory(c))
}

// IsImageQuery covers every image metadata query, including array size
// and channel queries.
func (r *Registry) IsImageQuery(raw string) bool { return isImageQuery(r.category(raw)) }
func (r *Registry) IsImageQueryFunc(c Callee) bool {
	return isImageQuery(r.calleeCategory(c))
}
