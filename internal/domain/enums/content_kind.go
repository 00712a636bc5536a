package enums

type ContentKind string

const (
	ContentKindPoem ContentKind = "poem"
	ContentKindPost ContentKind = "post"
)
