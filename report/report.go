// Package report renders a route quote as the operator-facing text report.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mvcarvalho/fretebot/freight"
	"github.com/mvcarvalho/fretebot/qualp"
)

const (
	freightCategory = "D"
	freightLoad     = "conteineirizada"
)

// Format renders the fixed-layout round-trip quote report. Currency values
// are always shown with two decimals. The routing response is expected to
// carry the table D tier for the request's axle count; a missing tier is an
// error, not a silent zero.
func Format(req *freight.Request, route *qualp.Response) (string, error) {
	axleKey := strconv.Itoa(req.AxleCount)

	tariff, ok := route.TabelaFrete.Dados[freightCategory][axleKey][freightLoad]
	if !ok {
		return "", fmt.Errorf("freight table has no %s/%s/%s entry", freightCategory, axleKey, freightLoad)
	}

	var tollTotal float64
	for _, toll := range route.Pedagios {
		fee, ok := toll.Tarifa[axleKey]
		if !ok {
			return "", fmt.Errorf("toll %q has no tariff for %s axles", toll.Nome, axleKey)
		}
		tollTotal += fee
	}

	var b strings.Builder
	line := func(format string, args ...any) {
		fmt.Fprintf(&b, format+"\n", args...)
	}

	line("COTAÇÃO DE FRETE (IDA E VOLTA)")
	line(strings.Repeat("=", 30))
	line("Origem: %s, %s", req.Origin.City, req.Origin.State)
	line("Destino: %s, %s", req.Destination.City, req.Destination.State)
	line("Espécie: %s", req.Species)
	line("Peso: %s kg", strconv.FormatFloat(req.WeightKg, 'f', -1, 64))
	line("Eixos: %d", req.AxleCount)
	line("")

	line("DETALHES DA ROTA (IDA E VOLTA)")
	line(strings.Repeat("-", 30))
	line("Distância total: %s", route.Distancia.Texto)
	line("Duração total estimada: %s", route.Duracao.Texto)
	line("Distância não pavimentada: %s (%s)",
		route.DistanciaNaoPavimentada.Texto, route.DistanciaNaoPavimentada.PercentualTexto)
	line("")

	line("CUSTOS (IDA E VOLTA)")
	line(strings.Repeat("-", 30))
	line("Valor do frete (ida e volta): R$ %.2f", tariff)
	line("Total de pedágios (ida e volta): R$ %.2f", tollTotal)
	line("Quantidade de pedágios (ida e volta): %d", len(route.Pedagios))
	line("")

	line("INFORMAÇÕES ADICIONAIS")
	line(strings.Repeat("-", 30))
	line("Quantidade de balanças no percurso: %d", len(route.Balancas))
	line("Resolução ANTT: %s", route.TabelaFrete.ANTTResolucao.Nome)
	line("Data da resolução: %s", route.TabelaFrete.ANTTResolucao.Data)
	line("Link para visualização: %s", route.LinkSiteQualp)

	return strings.TrimSuffix(b.String(), "\n"), nil
}
