package llm

import "fmt"

const extractionSystemPrompt = "Você é um assistente especializado em extrair informações de e-mails de cotação de frete e calcular requisitos de transporte."

// extractionPrompt embeds the raw email body into the fixed extraction
// template: the output schema, two worked location examples, the axle
// banding by cargo weight, and an instruction to produce no commentary.
func extractionPrompt(emailContent string) string {
	return fmt.Sprintf(`
# RULE: YOU ARE COMPLETELY MUTED. DO NOT COMMENT OR EXPLAIN ANYTHING.

Você é uma máquina inteligentíssima e muda. Completamente objetiva e concisa em suas ações sem nenhum comentário.
Analise o seguinte conteúdo de e-mail de cotação de frete e extraia as informações relevantes para cálculo:

IMPORTANTE:
%s

Forneça as seguintes informações:
- Origem: (Apenas cidade e estado, ignorando bairros ou subdivisões. Ex: SAO PAULO SP)
- Destino/Estufagem: (Apenas cidade e estado, ignorando bairros ou subdivisões. Ex: SANTOS SP)
- Quantidade de Containers: (Ex: 1)
- Espécie: (40'HC)
- Peso: (number) kg
- Volume: (number) m³
- Valor da mercadoria: (number)
- Eixos: (number)

REGRAS IMPORTANTES:
1. Para Origem e Destino, forneça APENAS o nome da cidade e o estado, sem incluir bairros ou subdivisões.
   Exemplo correto: "SAO VICENTE SP" em vez de "Humaitá - São Vicente SP"
2. Com base no peso da carga, identifique a quantidade de eixos necessários para cada viagem, seguindo estas regras:
   - Cargas > 25 ton = 6 eixos
   - Cargas <= 25 ton = 5 eixos
   - Cargas <= 20 ton = 4 eixos
   - Cargas <= 12 ton = 3 eixos

3. Caso sejam múltiplos containers, por exemplo 1x40'HC e 1x20'HC, faça cotações separadas sem multiplicar o valor da quantidade de containers pelo peso.
   Defina apenas a cotação de uma unidade.

Lembre-se: Seja conciso e forneça apenas as informações solicitadas, sem explicações adicionais.
`, emailContent)
}
