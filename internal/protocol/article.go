package protocol

import "unicode/utf8"

type articleCodec struct{}

func (articleCodec) EncodePayload(p Packet) ([]byte, error) {
	art, ok := p.(ArticleResponse)
	if !ok {
		return nil, wrongType(TypeArticleResponse, p)
	}
	if !utf8.ValidString(art.Article) {
		return nil, malformed("article is not valid utf-8")
	}
	return []byte(art.Article), nil
}

func (articleCodec) DecodePayload(connID uint16, payload []byte) (Packet, error) {
	text, err := checkText("article", payload)
	if err != nil {
		return nil, err
	}
	return ArticleResponse{Article: text, ConnectionID: connID}, nil
}
